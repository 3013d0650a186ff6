// Package track implements the real-time tracking control core: target
// selection, the yaw and distance control laws, the mode state machine and
// the command safety gate. It is pure computation over per-frame detection
// sets; perception and actuation live behind interfaces elsewhere.
package track

import (
	"github.com/roman-kulish/tello-tracker/internal/vision"
)

const (
	// ModeGrounded is the initial mode: drone not airborne, no commands issued
	ModeGrounded Mode = "grounded"

	// ModeSearching means airborne with no current target: open-loop rotation
	ModeSearching Mode = "searching"

	// ModeTracking means airborne with a selected target: closed-loop control
	ModeTracking Mode = "tracking"
)

// Mode is the tracking state machine mode
type Mode string

func (m Mode) String() string {
	return string(m)
}

// Target is the single detection selected for tracking this tick, with its
// derived image-space geometry. A Target is recomputed from scratch every
// frame and never carried over once the detection disappears.
type Target struct {
	vision.Detection

	CenterX int // Horizontal bounding box center in pixels
	CenterY int // Vertical bounding box center in pixels
	Area    int // Bounding box area in square pixels
}

func newTarget(d vision.Detection) Target {
	return Target{
		Detection: d,
		CenterX:   d.CenterX(),
		CenterY:   d.CenterY(),
		Area:      d.Area(),
	}
}
