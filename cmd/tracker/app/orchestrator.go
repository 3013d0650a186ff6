package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roman-kulish/tello-tracker/internal/drone"
	"github.com/roman-kulish/tello-tracker/internal/flight"
	"github.com/roman-kulish/tello-tracker/internal/storage"
	"github.com/roman-kulish/tello-tracker/internal/telemetry"
	"github.com/roman-kulish/tello-tracker/internal/track"
	"github.com/roman-kulish/tello-tracker/internal/vision"
)

// ErrDetectorStopped is returned when the detector process exits while the
// drone is still flying.
var ErrDetectorStopped = errors.New("detector stopped")

// WithStore sets the flight log store to record the session to
func WithStore(store storage.Store) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithTelemetry sets the telemetry provider used for the preflight battery
// check and for enriching tick records
func WithTelemetry(provider telemetry.Provider) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.telemetry = provider
	}
}

// WithSearchDelay sets the pause after each search rotation step
func WithSearchDelay(delay time.Duration) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.searchDelay = delay
	}
}

// WithTakeoffHeight sets the climb after takeoff, in centimeters
func WithTakeoffHeight(cm int) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.takeoffHeight = cm
	}
}

// WithSessionInfo sets the metadata recorded with the flight session
func WithSessionInfo(detector, droneAddress string, config *track.Config) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.detector = detector
		o.droneAddress = droneAddress
		o.config = config
	}
}

// Orchestrator closes the control loop between the detector pipeline and
// the drone: it runs the preflight check, takes off, feeds every frame's
// detections through the tracking state machine, dispatches the resulting
// command, and lands the drone on shutdown or fault. Commands are issued
// strictly in tick order; the single-slot frame handoff guarantees each
// tick acts on the most recent observation.
type Orchestrator struct {
	machine  *track.Machine
	drone    drone.Commander
	pipeline *vision.Pipeline

	logger    *slog.Logger
	store     storage.Store
	telemetry telemetry.Provider

	searchDelay   time.Duration
	takeoffHeight int

	detector     string
	droneAddress string
	config       *track.Config

	sessionID int64
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(machine *track.Machine, commander drone.Commander, pipeline *vision.Pipeline, logger *slog.Logger, options ...func(*Orchestrator)) *Orchestrator {
	o := Orchestrator{
		machine:  machine,
		drone:    commander,
		pipeline: pipeline,
		logger:   logger,
	}

	for _, option := range options {
		option(&o)
	}

	return &o
}

// Run flies one tracking session: preflight, takeoff, control loop, land.
// It returns once the context is cancelled, the detector stops, or a fatal
// flight fault occurs. The drone is always landed before Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	battery, err := o.batteryLevel()
	if err != nil {
		return fmt.Errorf("reading battery level: %w", err)
	}

	if err = o.machine.Arm(battery); err != nil {
		return fmt.Errorf("preflight check: %w", err)
	}
	o.logger.Info("preflight check passed", slog.Int("battery", battery))

	if o.store != nil {
		if o.sessionID, err = o.store.CreateSession(ctx, o.detector, o.droneAddress, o.config); err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
	}

	if err = o.drone.StreamOn(); err != nil {
		return fmt.Errorf("enabling video stream: %w", err)
	}

	frames := make(chan vision.Frame, 1)
	latest := vision.NewLatestFrame()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped, err := o.pipeline.BeginDetection(loopCtx, frames)
	if err != nil {
		return fmt.Errorf("starting detector: %w", err)
	}

	// The pipeline closes frames when detection stops; Collect drains until
	// then, so a detector blocked mid-send can always finish shutting down.
	go latest.Collect(frames)

	// The detector exiting, for any reason, ends the flight.
	detectorErr := make(chan error, 1)
	go func() {
		err := <-stopped
		detectorErr <- err
		cancel()
	}()

	if err = o.takeoff(); err != nil {
		o.land()
		return err
	}

	o.logger.Info("airborne, tracking started")

	loopErr := o.loop(loopCtx, latest)
	o.land()

	select {
	case err := <-detectorErr:
		if ctx.Err() == nil {
			if err == nil {
				err = ErrDetectorStopped
			}
			return fmt.Errorf("detector stopped mid-flight: %w", err)
		}
	default:
	}

	return loopErr
}

// SessionID reports the session identifier of the current flight, 0 when
// no store is configured.
func (o *Orchestrator) SessionID() int64 {
	return o.sessionID
}

func (o *Orchestrator) takeoff() error {
	if err := o.drone.Takeoff(); err != nil {
		return fmt.Errorf("takeoff: %w", err)
	}

	if o.takeoffHeight > 0 {
		if err := o.drone.Up(o.takeoffHeight); err != nil {
			// Not fatal: the drone is airborne, just lower than intended.
			o.logger.Warn(fmt.Sprintf("climb to takeoff height failed: %s", err))
		}
	}

	return nil
}

// loop runs the per-frame tick cycle until cancellation or a fault. One
// frame in, one command out; the loop suspends on frame arrival and never
// re-enters before the previous tick's command has been dispatched.
func (o *Orchestrator) loop(ctx context.Context, latest *vision.LatestFrame) error {
	var tick int64

	for {
		frame, err := latest.Next(ctx)
		if err != nil {
			return nil // cancelled: normal shutdown
		}

		tick++
		decision, ok := o.machine.Tick(frame.Detections)
		if !ok {
			return nil
		}

		if err = o.drone.Rc(decision.Command.LeftRight, decision.Command.ForwardBack, decision.Command.UpDown, decision.Command.Yaw); err != nil {
			// A broken command channel makes continued flight unsafe: no
			// retry (the command would be stale), force grounded.
			o.machine.Ground()
			return fmt.Errorf("actuation fault: %w", err)
		}

		o.recordTick(ctx, tick, frame, decision)

		if decision.Mode == track.ModeSearching && o.searchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(o.searchDelay):
			}
		}
	}
}

// land grounds the machine and brings the drone down. Errors are logged
// only: there is nothing above to handle a failed landing.
func (o *Orchestrator) land() {
	o.machine.Ground()

	o.logger.Info("landing...")

	if err := o.drone.Rc(0, 0, 0, 0); err != nil {
		o.logger.Error(fmt.Sprintf("sending stop command: %s", err))
	}
	if err := o.drone.Land(); err != nil {
		o.logger.Error(fmt.Sprintf("landing: %s", err))
	}
	if err := o.drone.StreamOff(); err != nil {
		o.logger.Warn(fmt.Sprintf("disabling video stream: %s", err))
	}

	o.logger.Info("landed")
}

func (o *Orchestrator) batteryLevel() (int, error) {
	if o.telemetry != nil {
		if t := o.telemetry.Get(); t != nil && t.Battery != nil {
			return *t.Battery, nil
		}
	}

	return o.drone.Battery()
}

func (o *Orchestrator) recordTick(ctx context.Context, tick int64, frame vision.Frame, decision track.Decision) {
	if o.store == nil {
		return
	}

	record := flight.Tick{
		SessionID:  o.sessionID,
		Tick:       tick,
		Timestamp:  frame.Timestamp,
		Mode:       decision.Mode.String(),
		Detections: len(frame.Detections),
		CmdYaw:     decision.Command.Yaw,
		CmdForward: decision.Command.ForwardBack,
	}

	if decision.HasTarget {
		record.TargetIdentity = &decision.Target.Identity
		record.TargetX = &decision.Target.CenterX
		record.TargetY = &decision.Target.CenterY
		record.TargetArea = &decision.Target.Area
		record.ErrorX = &decision.ErrorX
	}

	if o.telemetry != nil {
		if t := o.telemetry.Get(); t != nil {
			if id, err := o.store.StoreTelemetry(ctx, o.sessionID, t); err != nil {
				o.logger.Error(err.Error())
			} else {
				record.TelemetryID = &id
			}
		}
	}

	if err := o.store.StoreTick(ctx, &record); err != nil {
		o.logger.Error(err.Error())
	}
}
