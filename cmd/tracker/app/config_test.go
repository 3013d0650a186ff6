package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/tello-tracker/internal/track"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
detector:
  frameWidth: 360
  frameHeight: 240
  references:
    alice: /faces/alice.jpg
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, *track.NewConfig(), track.Config{
		FrameWidth:  config.Tracking.FrameWidth,
		FrameHeight: config.Tracking.FrameHeight,
		PIDKp:       config.Tracking.PIDKp,
		PIDKd:       config.Tracking.PIDKd,
		FBRangeMin:  config.Tracking.FBRangeMin,
		FBRangeMax:  config.Tracking.FBRangeMax,
		FBSpeed:     config.Tracking.FBSpeed,
		SearchSpeed: config.Tracking.SearchSpeed,
		MinBattery:  config.Tracking.MinBattery,
	})
	assert.Equal(t, []string{"alice"}, config.Tracking.Targets)
	assert.Equal(t, DefaultSearchDelay, time.Duration(config.Flight.SearchDelay))
	assert.Equal(t, DefaultTakeoffHeight, config.Flight.TakeoffHeight)
	assert.Equal(t, "192.168.10.1:8889", config.Drone.Address)

	level, err := config.Settings.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
settings:
  logLevel: debug
tracking:
  frameWidth: 640
  frameHeight: 480
  searchSpeed: 30
  targets: [bob]
flight:
  searchDelay: 500ms
  takeoffHeight: 50
detector:
  frameWidth: 640
  frameHeight: 480
  references:
    alice: /faces/alice.jpg
    bob: /faces/bob.jpg
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 640, config.Tracking.FrameWidth)
	assert.Equal(t, 30, config.Tracking.SearchSpeed)
	assert.Equal(t, track.DefaultPIDKp, config.Tracking.PIDKp) // omitted fields keep defaults
	assert.Equal(t, []string{"bob"}, config.Tracking.Targets)
	assert.Equal(t, 500*time.Millisecond, time.Duration(config.Flight.SearchDelay))
	assert.Equal(t, 50, config.Flight.TakeoffHeight)

	level, err := config.Settings.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			"missing file",
			"", // sentinel, handled below
		},
		{
			"bad log level",
			`
settings:
  logLevel: chatty
detector:
  frameWidth: 360
  frameHeight: 240
  references:
    alice: /faces/alice.jpg
`,
		},
		{
			"frame size mismatch",
			`
detector:
  frameWidth: 640
  frameHeight: 480
  references:
    alice: /faces/alice.jpg
`,
		},
		{
			"no references",
			`
detector:
  frameWidth: 360
  frameHeight: 240
`,
		},
		{
			"negative search delay",
			`
flight:
  searchDelay: -1s
detector:
  frameWidth: 360
  frameHeight: 240
  references:
    alice: /faces/alice.jpg
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if tt.data != "" {
				path = writeConfig(t, tt.data)
			}

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
