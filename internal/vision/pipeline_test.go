package vision

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptHandler drives the pipeline with a shell one-liner instead of a
// real detector binary.
type scriptHandler struct {
	script   string
	parseErr error
}

func (h scriptHandler) Cmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", h.script)
}

func (h scriptHandler) Parse(line string, frames chan<- Frame) error {
	if h.parseErr != nil {
		return h.parseErr
	}

	seq, err := strconv.ParseUint(strings.TrimPrefix(line, "frame "), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid line %q: %w", line, err)
	}

	frames <- Frame{Sequence: seq}
	return nil
}

func (h scriptHandler) Detector() string {
	return "script"
}

func TestPipeline_CollectsFrames(t *testing.T) {
	p := NewPipeline(scriptHandler{script: `printf 'frame 1\nframe 2\nframe 3\n'`})

	frames := make(chan Frame, 10)
	stopped, err := p.BeginDetection(context.Background(), frames)
	require.NoError(t, err)

	require.NoError(t, <-stopped)

	// The pipeline closes the channel once detection stops.
	var got []uint64
	for frame := range frames {
		got = append(got, frame.Sequence)
	}
	assert.Equal(t, []uint64{1, 2, 3}, got)
}

func TestPipeline_ParseErrorThreshold(t *testing.T) {
	h := scriptHandler{
		script:   `printf 'x\nx\nx\nx\nx\nx\n'`,
		parseErr: errors.New("bad line"),
	}
	p := NewPipeline(h, WithParseErrorsThreshold(3))

	frames := make(chan Frame, 10)
	stopped, err := p.BeginDetection(context.Background(), frames)
	require.NoError(t, err)

	err = <-stopped
	assert.ErrorIs(t, err, ErrTooManyParseErrors)
}

// A detector flooding stdout can be blocked mid-send when the flight ends.
// Stop must still return: the consumer keeps draining until the pipeline
// closes the channel after every worker has exited.
func TestPipeline_StopWithPendingSend(t *testing.T) {
	p := NewPipeline(scriptHandler{script: `i=0; while true; do i=$((i+1)); echo "frame $i"; done`})

	frames := make(chan Frame, 1)
	slot := NewLatestFrame()

	collected := make(chan struct{})
	go func() {
		slot.Collect(frames)
		close(collected)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped, err := p.BeginDetection(ctx, frames)
	require.NoError(t, err)

	// Wait for the producer to outrun the consumer, then shut down.
	_, err = slot.Next(ctx)
	require.NoError(t, err)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return after cancellation")
	}
	<-stopped

	select {
	case <-collected:
	case <-time.After(time.Second):
		t.Fatal("frames channel was not closed after detection stopped")
	}
}

func TestPipeline_SingleRun(t *testing.T) {
	p := NewPipeline(scriptHandler{script: `sleep 1`})

	frames := make(chan Frame, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped, err := p.BeginDetection(ctx, frames)
	require.NoError(t, err)
	require.True(t, p.IsRunning())

	_, err = p.BeginDetection(ctx, frames)
	assert.Error(t, err)

	cancel()
	<-stopped
	assert.False(t, p.IsRunning())
}
