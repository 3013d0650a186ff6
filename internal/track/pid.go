package track

// YawController turns the target's horizontal pixel error into a yaw
// velocity using a PD law. There is deliberately no integral term: the
// error is bounded by frame geometry and self-corrects as the drone turns,
// so integral action would only accumulate windup across search gaps.
type YawController struct {
	kp float64
	kd float64

	frameCenter int

	// prevError is only meaningful while the immediately preceding tick
	// also had a target; Reset clears it on target loss so re-acquisition
	// does not produce a derivative spike from stale error.
	prevError float64
}

// NewYawController creates a yaw controller for the given frame width.
func NewYawController(kp, kd float64, frameWidth int) *YawController {
	return &YawController{
		kp:          kp,
		kd:          kd,
		frameCenter: frameWidth / 2,
	}
}

// Compute returns the clamped yaw velocity for a target at the given
// horizontal center. Positive output turns the drone toward a target right
// of center.
func (c *YawController) Compute(centerX int) int {
	errorX := float64(centerX - c.frameCenter)

	output := c.kp*errorX + c.kd*(errorX-c.prevError)
	c.prevError = errorX

	return clampVelocity(int(output))
}

// Error returns the error recorded by the last Compute call, in pixels.
func (c *YawController) Error() float64 {
	return c.prevError
}

// Reset clears the stored error. Call it whenever the target is lost.
func (c *YawController) Reset() {
	c.prevError = 0
}
