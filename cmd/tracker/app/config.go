package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/tello-tracker/internal/drone/tello"
	"github.com/roman-kulish/tello-tracker/internal/track"
	"github.com/roman-kulish/tello-tracker/internal/vision/facerec"
)

const (
	// DefaultSearchDelay is the pause after each search rotation step, so
	// the open-loop scan advances in increments instead of spinning.
	DefaultSearchDelay = 800 * time.Millisecond

	// DefaultTakeoffHeight is the climb after takeoff, in centimeters.
	DefaultTakeoffHeight = 30
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Tracking track.Config   `yaml:"tracking"`
	Flight   FlightConfig   `yaml:"flight"`
	Detector facerec.Config `yaml:"detector"`
	Drone    tello.Config   `yaml:"drone"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level, defaulting to info.
func (s Settings) Level() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %q", s.LogLevel)
	}
}

// FlightConfig represents flight behavior settings
type FlightConfig struct {
	SearchDelay   tello.Duration `yaml:"searchDelay"`   // Pause after each search rotation step
	TakeoffHeight int            `yaml:"takeoffHeight"` // Climb after takeoff (cm)
}

func (c *FlightConfig) Validate() error {
	if time.Duration(c.SearchDelay) < 0 {
		return fmt.Errorf("flight config: search delay must not be negative: %s", time.Duration(c.SearchDelay))
	}
	if c.TakeoffHeight < 0 || c.TakeoffHeight > 500 {
		return fmt.Errorf("flight config: invalid takeoff height: %d cm", c.TakeoffHeight)
	}

	return nil
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
}

// LoadConfig reads, decodes and validates the application configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Config{
		Tracking: *track.NewConfig(),
		Drone:    *tello.NewConfig(),
		Flight: FlightConfig{
			SearchDelay:   tello.Duration(DefaultSearchDelay),
			TakeoffHeight: DefaultTakeoffHeight,
		},
	}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// The selector follows the detector's reference identities unless the
	// config narrows them explicitly.
	if len(config.Tracking.Targets) == 0 {
		config.Tracking.Targets = config.Detector.Identities()
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if _, err := c.Settings.Level(); err != nil {
		return err
	}
	if err := c.Tracking.Validate(); err != nil {
		return err
	}
	if err := c.Flight.Validate(); err != nil {
		return err
	}
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	if err := c.Drone.Validate(); err != nil {
		return err
	}
	if len(c.Tracking.Targets) == 0 {
		return fmt.Errorf("no target identities configured")
	}

	// The detector must process frames in the geometry the controllers
	// compute their errors in.
	if c.Detector.FrameWidth != c.Tracking.FrameWidth || c.Detector.FrameHeight != c.Tracking.FrameHeight {
		return fmt.Errorf("detector frame size %dx%d does not match tracking frame size %dx%d",
			c.Detector.FrameWidth, c.Detector.FrameHeight, c.Tracking.FrameWidth, c.Tracking.FrameHeight)
	}

	return nil
}
