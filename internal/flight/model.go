// Package flight holds the domain records shared by the flight log store
// and the report renderer.
package flight

import (
	"time"
)

// Session represents a single tracking flight. Each session captures
// metadata about when and with which configuration the flight ran.
type Session struct {
	ID        int64     `json:"ID"`               // Unique identifier for the session
	StartTime time.Time `json:"startTime"`        // When the flight began
	Detector  string    `json:"detector"`         // Detector backend used (e.g., "facerec")
	Drone     string    `json:"drone"`            // Drone address the commands were sent to
	Config    *string   `json:"config,omitempty"` // Tracking configuration in JSON format
}

// Tick represents one control loop decision: what the tracker saw, which
// mode it was in and which command it dispatched.
type Tick struct {
	ID        int64     `json:"ID"`
	SessionID int64     `json:"sessionID"`
	Tick      int64     `json:"tick"`      // Monotonic tick counter within the session
	Timestamp time.Time `json:"timestamp"` // When the tick was processed
	Mode      string    `json:"mode"`      // Machine mode after the tick

	Detections     int      `json:"detections"`               // Number of detections in the frame
	TargetIdentity *string  `json:"targetIdentity,omitempty"` // Selected target, nil while searching
	TargetX        *int     `json:"targetX,omitempty"`        // Target center x in pixels
	TargetY        *int     `json:"targetY,omitempty"`        // Target center y in pixels
	TargetArea     *int     `json:"targetArea,omitempty"`     // Target bounding box area in px²
	ErrorX         *float64 `json:"errorX,omitempty"`         // Horizontal pixel error

	CmdYaw     int `json:"cmdYaw"`     // Dispatched yaw velocity
	CmdForward int `json:"cmdForward"` // Dispatched forward/backward velocity

	TelemetryID *int64 `json:"telemetryID,omitempty"` // Telemetry snapshot recorded with this tick
}
