package track

const (
	// VelocityMin and VelocityMax bound every command component to the
	// range the drone's rc channel accepts.
	VelocityMin = -100
	VelocityMax = 100
)

// Command is one tick's velocity command tuple. Positive Yaw rotates
// clockwise, positive ForwardBack moves forward. LeftRight and UpDown are
// always zero in this control design but are carried so the actuation
// channel receives the full rc tuple.
type Command struct {
	LeftRight   int // Lateral velocity, fixed 0
	ForwardBack int // Forward/backward velocity
	UpDown      int // Vertical velocity, fixed 0
	Yaw         int // Rotational velocity about the vertical axis
}

// Clamp bounds every command component to [VelocityMin, VelocityMax].
// Clamping an already clamped command is a no-op.
func (c Command) Clamp() Command {
	return Command{
		LeftRight:   clampVelocity(c.LeftRight),
		ForwardBack: clampVelocity(c.ForwardBack),
		UpDown:      clampVelocity(c.UpDown),
		Yaw:         clampVelocity(c.Yaw),
	}
}

// IsZero reports whether every component is zero (a hover command).
func (c Command) IsZero() bool {
	return c == Command{}
}

func clampVelocity(v int) int {
	if v < VelocityMin {
		return VelocityMin
	}
	if v > VelocityMax {
		return VelocityMax
	}
	return v
}
