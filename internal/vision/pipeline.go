package vision

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	// ParseErrorsThreshold defines the number of consecutive parse errors allowed
	ParseErrorsThreshold = 5
)

var (
	// ErrTooManyParseErrors is returned when the number of consecutive parse errors exceeds the threshold
	ErrTooManyParseErrors = errors.New("too many consecutive parse errors")

	// ErrBrokenPipe is returned when there's an error reading from stdout or stderr
	ErrBrokenPipe = errors.New("broken pipe")
)

// Handler interface defines the methods required for driving an external
// face detector process. The process writes one result line per processed
// video frame to stdout.
type Handler interface {
	Cmd(ctx context.Context) *exec.Cmd
	Parse(line string, frames chan<- Frame) error
	Detector() string
}

// WithLogger sets the logger for the pipeline
func WithLogger(logger *slog.Logger) func(p *Pipeline) {
	return func(p *Pipeline) {
		p.logger = logger.With(slog.String("detector", p.handler.Detector()))
	}
}

// WithParseErrorsThreshold sets the threshold for consecutive parse errors
func WithParseErrorsThreshold(threshold uint8) func(p *Pipeline) {
	return func(p *Pipeline) {
		p.parseErrorsThreshold = threshold
	}
}

// Pipeline runs a detector process and turns its output into Frame values.
// It can be started (detection collection) and stopped once.
type Pipeline struct {
	handler Handler

	isRunning atomic.Bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	parseErrorsThreshold uint8
	logger               *slog.Logger
}

// NewPipeline creates a new Pipeline instance with a discard logger
func NewPipeline(h Handler, options ...func(p *Pipeline)) *Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p := Pipeline{
		handler:              h,
		logger:               logger,
		parseErrorsThreshold: ParseErrorsThreshold,
	}

	for _, option := range options {
		option(&p)
	}

	return &p
}

// BeginDetection starts the detector process and collects frames, sending
// them to the frames channel. The pipeline takes ownership of the channel
// and closes it once detection stops, so consumers can drain it to
// completion. The returned channel reports the terminal error, if any.
func (p *Pipeline) BeginDetection(ctx context.Context, frames chan<- Frame) (<-chan error, error) {
	if p.isRunning.Load() {
		return nil, fmt.Errorf("detector is already running")
	}

	p.isRunning.Store(true)

	ctx, p.cancel = context.WithCancel(ctx)
	cmd := p.handler.Cmd(ctx)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		p.isRunning.Store(false)
		return nil, fmt.Errorf("error creating stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		p.isRunning.Store(false)
		return nil, fmt.Errorf("error creating stderr pipe: %w", err)
	}

	if err = cmd.Start(); err != nil {
		p.isRunning.Store(false)
		return nil, fmt.Errorf("error starting command: %w", err)
	}

	detectionStopped := make(chan error)

	p.wg.Add(1)
	go func() {
		defer close(detectionStopped)

		p.logger.Info("starting detection collection...")

		done := make(chan error, 3) // one result per worker

		go p.handleStdout(stdout, frames, done)
		go p.handleStderr(stderr, done)
		go p.handleCmdWait(cmd, done)

		var errs []error
		for i := 0; i < cap(done); i++ {
			if err := <-done; err != nil {
				p.cancel() // cancel context on error
				p.logger.Error(err.Error())

				errs = append(errs, err)
			}
		}

		close(done)
		close(frames) // all senders have returned, release the consumer

		p.logger.Info("detection collection stopped")

		p.isRunning.Store(false)
		p.wg.Done()

		if len(errs) > 0 {
			detectionStopped <- errors.Join(errs...)
		}
	}()

	return detectionStopped, nil
}

func (p *Pipeline) Stop() {
	if !p.isRunning.Load() {
		return // already stopped
	}

	p.cancel()
	p.wg.Wait()
	p.isRunning.Store(false)
}

// IsRunning returns true if the detector process is running
func (p *Pipeline) IsRunning() bool {
	return p.isRunning.Load()
}

// handleStdout reads from stdout, parses and sends frames to the frames channel.
func (p *Pipeline) handleStdout(stdout io.Reader, frames chan<- Frame, done chan<- error) {
	var parseErrors uint8

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if err := p.handler.Parse(line, frames); err != nil {
			parseErrors++
			p.logger.Warn(fmt.Sprintf("error parsing frame: %s", err.Error()), slog.String("line", line))

			if parseErrors >= p.parseErrorsThreshold {
				done <- ErrTooManyParseErrors
				return
			}

			continue
		}

		parseErrors = 0 // reset counter
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		done <- fmt.Errorf("%w: error reading stdout: %w", ErrBrokenPipe, err)
		return
	}

	done <- nil
}

// handleStderr reads from stderr and logs errors.
func (p *Pipeline) handleStderr(stderr io.Reader, done chan<- error) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		// Detector stderr is diagnostic chatter, not a failure signal.
		p.logger.Warn(fmt.Sprintf("%s >> %s", p.handler.Detector(), line))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, fs.ErrClosed) {
		done <- fmt.Errorf("%w: error reading stderr: %w", ErrBrokenPipe, err)
		return
	}

	done <- nil
}

// handleCmdWait waits for the command to exit and sends the error to the error channel
func (p *Pipeline) handleCmdWait(cmd *exec.Cmd, done chan<- error) {
	if err := cmd.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		done <- fmt.Errorf("command exited with error: %w", err)
		return
	}

	done <- nil
}
