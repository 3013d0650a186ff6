package telemetry

import (
	"time"
)

// Provider returns the latest telemetry snapshot, or nil when no state has
// been received from the drone yet.
type Provider interface {
	Get() *Telemetry
}

// Telemetry is the telemetry data from the drone state channel
type Telemetry struct {
	Timestamp  time.Time `json:"timestamp"`            // Timestamp of telemetry measurement
	Battery    *int      `json:"battery,omitempty"`    // Battery level in percent
	Pitch      *float64  `json:"pitch,omitempty"`      // Pitch angle in degrees
	Roll       *float64  `json:"roll,omitempty"`       // Roll angle in degrees
	Yaw        *float64  `json:"yaw,omitempty"`        // Yaw angle in degrees
	Height     *float64  `json:"height,omitempty"`     // Height above takeoff point in cm
	Barometer  *float64  `json:"barometer,omitempty"`  // Barometric altitude in cm
	TOF        *float64  `json:"tof,omitempty"`        // Time-of-flight distance in cm
	SpeedX     *float64  `json:"speedX,omitempty"`     // X-axis speed in cm/s
	SpeedY     *float64  `json:"speedY,omitempty"`     // Y-axis speed in cm/s
	SpeedZ     *float64  `json:"speedZ,omitempty"`     // Z-axis speed in cm/s
	AccelX     *float64  `json:"accelX,omitempty"`     // X-axis acceleration in cm/s²
	AccelY     *float64  `json:"accelY,omitempty"`     // Y-axis acceleration in cm/s²
	AccelZ     *float64  `json:"accelZ,omitempty"`     // Z-axis acceleration in cm/s²
	TempLow    *int      `json:"tempLow,omitempty"`    // Lowest board temperature in °C
	TempHigh   *int      `json:"tempHigh,omitempty"`   // Highest board temperature in °C
	FlightTime *int      `json:"flightTime,omitempty"` // Motor-on time in seconds
}
