package app

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/roman-kulish/tello-tracker/internal/flight"
	"github.com/roman-kulish/tello-tracker/internal/track"
)

// FlightData is one recorded session prepared for rendering: the raw tick
// records plus the command and error series extracted from them.
type FlightData struct {
	Session *flight.Session
	Ticks   []flight.Tick
}

// SeriesStats summarises one per-tick series.
type SeriesStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func NewFlightData(session *flight.Session, ticks []flight.Tick) *FlightData {
	return &FlightData{Session: session, Ticks: ticks}
}

// Duration is the wall time between the first and last recorded tick.
func (d *FlightData) Duration() time.Duration {
	if len(d.Ticks) < 2 {
		return 0
	}
	return d.Ticks[len(d.Ticks)-1].Timestamp.Sub(d.Ticks[0].Timestamp)
}

// TrackingRatio is the fraction of ticks spent with a locked target.
func (d *FlightData) TrackingRatio() float64 {
	if len(d.Ticks) == 0 {
		return 0
	}

	var tracking int
	for _, t := range d.Ticks {
		if t.Mode == track.ModeTracking.String() {
			tracking++
		}
	}
	return float64(tracking) / float64(len(d.Ticks))
}

// YawSeries returns the yaw command issued at every tick.
func (d *FlightData) YawSeries() []float64 {
	values := make([]float64, len(d.Ticks))
	for i, t := range d.Ticks {
		values[i] = float64(t.CmdYaw)
	}
	return values
}

// ForwardSeries returns the forward/backward command issued at every tick.
func (d *FlightData) ForwardSeries() []float64 {
	values := make([]float64, len(d.Ticks))
	for i, t := range d.Ticks {
		values[i] = float64(t.CmdForward)
	}
	return values
}

// ErrorSeries returns the horizontal pixel error for every tick; ticks
// without a target carry no error and are reported as ok=false in the
// mask.
func (d *FlightData) ErrorSeries() (values []float64, mask []bool) {
	values = make([]float64, len(d.Ticks))
	mask = make([]bool, len(d.Ticks))
	for i, t := range d.Ticks {
		if t.ErrorX != nil {
			values[i] = float64(*t.ErrorX)
			mask[i] = true
		}
	}
	return values, mask
}

func seriesStats(values []float64) SeriesStats {
	if len(values) == 0 {
		return SeriesStats{}
	}

	return SeriesStats{
		Mean:   stat.Mean(values, nil),
		StdDev: stat.StdDev(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}

// YawStats summarises the yaw command series.
func (d *FlightData) YawStats() SeriesStats {
	return seriesStats(d.YawSeries())
}

// ErrorStats summarises the pixel error over ticks that had a target.
// ok is false when the session never locked a target.
func (d *FlightData) ErrorStats() (SeriesStats, bool) {
	values, mask := d.ErrorSeries()

	tracked := values[:0:0]
	for i, v := range values {
		if mask[i] {
			tracked = append(tracked, v)
		}
	}

	if len(tracked) == 0 {
		return SeriesStats{}, false
	}
	return seriesStats(tracked), true
}
