// Package tello implements the drone.Commander interface over the DJI
// Tello text-command SDK: newline-free ASCII commands over UDP with "ok" /
// "error" acknowledgements, a fire-and-forget rc channel, and a state
// packet feed on a separate port.
package tello

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roman-kulish/tello-tracker/internal/telemetry"
)

var (
	// ErrTransmission is returned when a command cannot be written to the
	// command channel.
	ErrTransmission = errors.New("command transmission failed")

	// ErrCommandRejected is returned when the drone acknowledges a command
	// with an error response.
	ErrCommandRejected = errors.New("command rejected by drone")

	// ErrNotConnected is returned when a command is issued before Connect.
	ErrNotConnected = errors.New("not connected")
)

// WithLogger sets the logger for the drone client
func WithLogger(logger *slog.Logger) func(d *Drone) {
	return func(d *Drone) {
		d.logger = logger.With(slog.String("drone", d.config.Address))
	}
}

// Drone is a Tello SDK client. It owns two UDP sockets: the command
// channel (request/acknowledge, serialized) and the state channel (drone
// push, parsed into telemetry snapshots). Drone implements drone.Commander
// and telemetry.Provider.
type Drone struct {
	config *Config
	logger *slog.Logger

	conn      *net.UDPConn
	stateConn *net.UDPConn

	cmdMu     sync.Mutex // serializes command/acknowledge exchanges
	responses chan string

	stateMu sync.RWMutex
	state   *telemetry.Telemetry

	connected atomic.Bool
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// New creates a new Tello client with a discard logger
func New(config *Config, options ...func(d *Drone)) (*Drone, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tello config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // nil logger

	d := Drone{
		config:    config,
		logger:    logger,
		responses: make(chan string, 1),
	}

	for _, option := range options {
		option(&d)
	}

	return &d, nil
}

// Connect opens the command and state channels and switches the drone into
// SDK command mode.
func (d *Drone) Connect(ctx context.Context) error {
	if d.connected.Load() {
		return fmt.Errorf("already connected")
	}

	addr, err := net.ResolveUDPAddr("udp", d.config.Address)
	if err != nil {
		return fmt.Errorf("resolving drone address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("opening command channel: %w", err)
	}
	d.conn = conn

	stateConn, err := net.ListenUDP("udp", &net.UDPAddr{Port: d.config.StatePort})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("opening state channel: %w", err)
	}
	d.stateConn = stateConn

	d.connected.Store(true)

	d.wg.Add(2)
	go d.readResponses()
	go d.readState()

	// Enter SDK mode. The first command after power-on can be slow, so
	// retry until the context gives up.
	for {
		if err = d.command("command"); err == nil {
			break
		}

		select {
		case <-ctx.Done():
			_ = d.Close()
			return fmt.Errorf("entering command mode: %w", err)
		case <-time.After(time.Second):
		}
	}

	d.logger.Info("connected")
	return nil
}

// Takeoff starts the motors and lifts off
func (d *Drone) Takeoff() error {
	return d.command("takeoff")
}

// Up climbs by the given number of centimeters
func (d *Drone) Up(cm int) error {
	return d.command(fmt.Sprintf("up %d", cm))
}

// Land lands the drone
func (d *Drone) Land() error {
	return d.command("land")
}

// StreamOn enables the video feed
func (d *Drone) StreamOn() error {
	return d.command("streamon")
}

// StreamOff disables the video feed
func (d *Drone) StreamOff() error {
	return d.command("streamoff")
}

// Rc sends one velocity tuple on the rc channel. The SDK does not
// acknowledge rc commands; an error here means the datagram was not
// written, which the control loop treats as a fatal transmission fault.
func (d *Drone) Rc(leftRight, forwardBack, upDown, yaw int) error {
	if !d.connected.Load() {
		return ErrNotConnected
	}

	cmd := fmt.Sprintf("rc %d %d %d %d", leftRight, forwardBack, upDown, yaw)
	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransmission, cmd, err)
	}

	return nil
}

// Battery returns the battery level in percent. It prefers the passively
// received state feed and falls back to the battery? query.
func (d *Drone) Battery() (int, error) {
	if t := d.Get(); t != nil && t.Battery != nil {
		return *t.Battery, nil
	}

	response, err := d.query("battery?")
	if err != nil {
		return 0, err
	}

	battery, err := strconv.Atoi(strings.TrimSpace(response))
	if err != nil {
		return 0, fmt.Errorf("invalid battery response %q: %w", response, err)
	}

	return battery, nil
}

// Get returns the latest telemetry snapshot. It implements
// telemetry.Provider; nil means no state packet has arrived yet.
func (d *Drone) Get() *telemetry.Telemetry {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()

	return d.state
}

// Close releases both channels. It is safe to call multiple times.
func (d *Drone) Close() error {
	d.closeOnce.Do(func() {
		d.connected.Store(false)

		var errs []error
		if d.conn != nil {
			errs = append(errs, d.conn.Close())
		}
		if d.stateConn != nil {
			errs = append(errs, d.stateConn.Close())
		}

		d.wg.Wait()
		d.closeErr = errors.Join(errs...)
	})

	return d.closeErr
}

// command sends a control command and waits for an "ok" acknowledgement.
func (d *Drone) command(cmd string) error {
	response, err := d.query(cmd)
	if err != nil {
		return err
	}

	if !strings.EqualFold(response, "ok") {
		return fmt.Errorf("%w: %s: %q", ErrCommandRejected, cmd, response)
	}

	return nil
}

// query sends a command and returns the drone's raw response.
func (d *Drone) query(cmd string) (string, error) {
	if !d.connected.Load() {
		return "", ErrNotConnected
	}

	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()

	// Drop any stale acknowledgement from a timed out exchange.
	select {
	case <-d.responses:
	default:
	}

	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTransmission, cmd, err)
	}

	select {
	case response := <-d.responses:
		return response, nil
	case <-time.After(time.Duration(d.config.ResponseTimeout)):
		return "", fmt.Errorf("%w: %s: timed out waiting for response", ErrTransmission, cmd)
	}
}

// readResponses reads command acknowledgements from the command channel.
func (d *Drone) readResponses() {
	defer d.wg.Done()

	buf := make([]byte, 1024)
	for {
		n, err := d.conn.Read(buf)
		if err != nil {
			if d.connected.Load() {
				d.logger.Warn(fmt.Sprintf("command channel read error: %s", err))
			}
			return
		}

		response := strings.TrimSpace(string(buf[:n]))
		if response == "" {
			continue
		}

		select {
		case d.responses <- response:
		default:
			d.logger.Warn("dropping unexpected response", slog.String("response", response))
		}
	}
}

// readState reads state packets and keeps the latest telemetry snapshot.
func (d *Drone) readState() {
	defer d.wg.Done()

	buf := make([]byte, 2048)
	for {
		n, err := d.stateConn.Read(buf)
		if err != nil {
			if d.connected.Load() {
				d.logger.Warn(fmt.Sprintf("state channel read error: %s", err))
			}
			return
		}

		state, err := parseState(string(buf[:n]), time.Now())
		if err != nil {
			d.logger.Warn(fmt.Sprintf("error parsing state packet: %s", err))
			continue
		}

		d.stateMu.Lock()
		d.state = state
		d.stateMu.Unlock()
	}
}
