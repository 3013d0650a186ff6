package track

import (
	"fmt"

	"github.com/roman-kulish/tello-tracker/internal/vision"
)

// Decision is the outcome of one state machine tick.
type Decision struct {
	Mode      Mode    // Mode after this tick's transition
	Command   Command // Clamped command to dispatch this tick
	Target    Target  // Selected target, zero value when HasTarget is false
	HasTarget bool    // Whether a target was selected this tick
	ErrorX    float64 // Horizontal pixel error, 0 while searching
}

// Machine is the tracking state machine. It owns the sole mode variable and
// sequences the selector and controllers once per video frame. It is not
// safe for concurrent use; the control loop is single-threaded by design.
type Machine struct {
	selector *Selector
	yaw      *YawController
	distance *DistanceController

	searchSpeed int
	minBattery  int

	mode Mode
	down bool // set by Ground; terminal for the process lifetime
}

// NewMachine creates a grounded state machine from a validated configuration.
func NewMachine(config *Config) (*Machine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tracking config: %w", err)
	}

	return &Machine{
		selector:    NewSelector(config.Targets),
		yaw:         NewYawController(config.PIDKp, config.PIDKd, config.FrameWidth),
		distance:    NewDistanceController(config.FBRangeMin, config.FBRangeMax, config.FBSpeed),
		searchSpeed: config.SearchSpeed,
		minBattery:  config.MinBattery,
		mode:        ModeGrounded,
	}, nil
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Arm runs the preflight battery check and, on success, transitions from
// grounded to searching. A machine grounded via Ground cannot be re-armed.
func (m *Machine) Arm(batteryPercent int) error {
	if m.down {
		return fmt.Errorf("machine is shut down")
	}
	if m.mode != ModeGrounded {
		return fmt.Errorf("cannot arm in mode %s", m.mode)
	}

	if err := Preflight(batteryPercent, m.minBattery); err != nil {
		return err
	}

	m.mode = ModeSearching
	return nil
}

// Tick advances the machine by one frame. It returns false while grounded,
// in which case no command must be dispatched. The returned command is
// already clamped.
func (m *Machine) Tick(detections []vision.Detection) (Decision, bool) {
	if m.mode == ModeGrounded {
		return Decision{Mode: ModeGrounded}, false
	}

	target, ok := m.selector.Select(detections)
	if !ok {
		// Target lost or never seen: drop straight back to searching and
		// clear the controller error so the next acquisition starts clean.
		m.mode = ModeSearching
		m.yaw.Reset()

		return Decision{
			Mode:    ModeSearching,
			Command: Command{Yaw: m.searchSpeed}.Clamp(),
		}, true
	}

	m.mode = ModeTracking

	command := Command{
		Yaw:         m.yaw.Compute(target.CenterX),
		ForwardBack: m.distance.Compute(target.Area),
	}

	return Decision{
		Mode:      ModeTracking,
		Command:   command.Clamp(),
		Target:    target,
		HasTarget: true,
		ErrorX:    m.yaw.Error(),
	}, true
}

// Ground forces the machine into the grounded mode. It is used for the
// shutdown path and for fatal actuation faults, and is terminal: the
// machine cannot be re-armed afterwards.
func (m *Machine) Ground() {
	m.mode = ModeGrounded
	m.down = true
	m.yaw.Reset()
}
