package tello

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roman-kulish/tello-tracker/internal/telemetry"
)

// parseState parses one Tello state packet into a telemetry snapshot.
// Packets are semicolon-separated key:value pairs, for example:
//
//	pitch:0;roll:-1;yaw:12;vgx:0;vgy:0;vgz:0;templ:60;temph:62;
//	tof:10;h:30;bat:87;baro:-42.55;time:12;agx:-5.00;agy:3.00;agz:-998.00;
//
// Unknown keys are ignored so firmware additions do not break parsing.
func parseState(packet string, timestamp time.Time) (*telemetry.Telemetry, error) {
	packet = strings.TrimSpace(packet)
	if packet == "" {
		return nil, fmt.Errorf("empty state packet")
	}

	t := telemetry.Telemetry{Timestamp: timestamp}
	seen := 0

	for _, pair := range strings.Split(packet, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid state pair: %q", pair)
		}

		if err := applyStateField(&t, key, value); err != nil {
			return nil, err
		}
		seen++
	}

	if seen == 0 {
		return nil, fmt.Errorf("no fields in state packet")
	}

	return &t, nil
}

func applyStateField(t *telemetry.Telemetry, key, value string) error {
	parseFloat := func(dst **float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", key, value, err)
		}
		*dst = &v
		return nil
	}
	parseInt := func(dst **int) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", key, value, err)
		}
		*dst = &v
		return nil
	}

	switch key {
	case "bat":
		return parseInt(&t.Battery)
	case "pitch":
		return parseFloat(&t.Pitch)
	case "roll":
		return parseFloat(&t.Roll)
	case "yaw":
		return parseFloat(&t.Yaw)
	case "h":
		return parseFloat(&t.Height)
	case "baro":
		return parseFloat(&t.Barometer)
	case "tof":
		return parseFloat(&t.TOF)
	case "vgx":
		return parseFloat(&t.SpeedX)
	case "vgy":
		return parseFloat(&t.SpeedY)
	case "vgz":
		return parseFloat(&t.SpeedZ)
	case "agx":
		return parseFloat(&t.AccelX)
	case "agy":
		return parseFloat(&t.AccelY)
	case "agz":
		return parseFloat(&t.AccelZ)
	case "templ":
		return parseInt(&t.TempLow)
	case "temph":
		return parseInt(&t.TempHigh)
	case "time":
		return parseInt(&t.FlightTime)
	default:
		return nil // tolerate unknown fields
	}
}
