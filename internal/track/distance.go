package track

// DistanceController turns the target's apparent size into a forward or
// backward velocity. Bounding box area is a noisy proxy for distance, so
// the policy is an inclusive dead band rather than a proportional law:
// inside [areaMin, areaMax] the drone holds distance. There is no
// hysteresis around the band edges; area estimates oscillating across a
// boundary will produce alternating commands.
type DistanceController struct {
	areaMin int
	areaMax int
	speed   int
}

// NewDistanceController creates a distance controller holding the target
// bounding box area within [areaMin, areaMax].
func NewDistanceController(areaMin, areaMax, speed int) *DistanceController {
	return &DistanceController{
		areaMin: areaMin,
		areaMax: areaMax,
		speed:   speed,
	}
}

// Compute returns the forward/backward velocity for a target of the given
// bounding box area: positive (forward) when the target appears too far,
// negative (backward) when too close, zero inside the dead band.
func (c *DistanceController) Compute(area int) int {
	switch {
	case area < c.areaMin:
		return c.speed
	case area > c.areaMax:
		return -c.speed
	default:
		return 0
	}
}
