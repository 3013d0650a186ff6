// Package drone defines the actuation boundary of the tracker. The control
// loop talks to a Commander and never to a wire protocol directly.
package drone

import "context"

// Commander is the drone actuation channel. Velocity arguments are in the
// range [-100, 100]; implementations transmit them over their own wire
// protocol and surface transmission failures as errors.
type Commander interface {
	// Connect establishes the command channel and puts the drone into
	// command mode.
	Connect(ctx context.Context) error

	// Takeoff starts the motors and lifts off.
	Takeoff() error

	// Up climbs by the given number of centimeters.
	Up(cm int) error

	// Land lands the drone.
	Land() error

	// Rc sends one velocity command tuple. It does not wait for an
	// acknowledgement; a returned error means the command was not
	// transmitted.
	Rc(leftRight, forwardBack, upDown, yaw int) error

	// Battery returns the current battery level in percent.
	Battery() (int, error)

	// StreamOn and StreamOff control the video feed.
	StreamOn() error
	StreamOff() error

	// Close releases the command channel. The drone should be landed first.
	Close() error
}
