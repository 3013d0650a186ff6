package track

import (
	"errors"
	"fmt"
)

// ErrLowBattery is returned by Preflight when the battery level is below
// the configured takeoff floor.
var ErrLowBattery = errors.New("battery below takeoff floor")

// Preflight permits takeoff only when the battery level meets the
// configured floor. The check is one-shot: battery is sampled before
// takeoff and not re-evaluated in flight.
func Preflight(batteryPercent, minBattery int) error {
	if batteryPercent < 0 || batteryPercent > 100 {
		return fmt.Errorf("invalid battery level: %d%%", batteryPercent)
	}
	if batteryPercent < minBattery {
		return fmt.Errorf("%w: %d%% < %d%%", ErrLowBattery, batteryPercent, minBattery)
	}

	return nil
}
