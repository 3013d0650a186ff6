package track

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Defaults mirror the original tuning of the tracker.
const (
	DefaultFrameWidth  = 360
	DefaultFrameHeight = 240
	DefaultPIDKp       = 0.4
	DefaultPIDKd       = 0.4
	DefaultFBRangeMin  = 3000
	DefaultFBRangeMax  = 5000
	DefaultFBSpeed     = 25
	DefaultSearchSpeed = 20
	DefaultMinBattery  = 50
)

// Config holds the tracking control tunables. It is read once at startup,
// validated, and shared read-only by every component; nothing re-reads it
// at runtime.
type Config struct {
	FrameWidth  int     `yaml:"frameWidth"`  // Processed frame width in pixels
	FrameHeight int     `yaml:"frameHeight"` // Processed frame height in pixels
	PIDKp       float64 `yaml:"pidKp"`       // Proportional gain for yaw control
	PIDKd       float64 `yaml:"pidKd"`       // Derivative gain for yaw control
	FBRangeMin  int     `yaml:"fbRangeMin"`  // Distance dead band lower bound (px²)
	FBRangeMax  int     `yaml:"fbRangeMax"`  // Distance dead band upper bound (px²)
	FBSpeed     int     `yaml:"fbSpeed"`     // Forward/backward speed magnitude
	SearchSpeed int     `yaml:"searchSpeed"` // Clockwise search rotation speed
	MinBattery  int     `yaml:"minBattery"`  // Takeoff battery floor (%)

	// Targets is the identity allow set for the selector. When empty, the
	// application defaults it to the detector's reference identities.
	Targets []string `yaml:"targets"`
}

// NewConfig returns a Config populated with the default tuning.
func NewConfig() *Config {
	return &Config{
		FrameWidth:  DefaultFrameWidth,
		FrameHeight: DefaultFrameHeight,
		PIDKp:       DefaultPIDKp,
		PIDKd:       DefaultPIDKd,
		FBRangeMin:  DefaultFBRangeMin,
		FBRangeMax:  DefaultFBRangeMax,
		FBSpeed:     DefaultFBSpeed,
		SearchSpeed: DefaultSearchSpeed,
		MinBattery:  DefaultMinBattery,
	}
}

func (c *Config) Validate() error {
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("track.Config: invalid frame size: %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.PIDKp < 0 || c.PIDKd < 0 {
		return fmt.Errorf("track.Config: gains must not be negative: kp=%f, kd=%f", c.PIDKp, c.PIDKd)
	}
	if c.FBRangeMin <= 0 {
		return fmt.Errorf("track.Config: fb range min must be positive: %d", c.FBRangeMin)
	}
	if c.FBRangeMax <= c.FBRangeMin {
		return fmt.Errorf("track.Config: fb range max must be greater than min: %d <= %d", c.FBRangeMax, c.FBRangeMin)
	}
	if c.FBSpeed <= 0 || c.FBSpeed > VelocityMax {
		return fmt.Errorf("track.Config: invalid fb speed: %d, must be between 1 and %d", c.FBSpeed, VelocityMax)
	}
	if c.SearchSpeed <= 0 || c.SearchSpeed > VelocityMax {
		return fmt.Errorf("track.Config: invalid search speed: %d, must be between 1 and %d", c.SearchSpeed, VelocityMax)
	}
	if c.MinBattery < 0 || c.MinBattery > 100 {
		return fmt.Errorf("track.Config: invalid battery floor: %d%%", c.MinBattery)
	}

	return nil
}

// UnmarshalYAML applies defaults before decoding the configuration, so a
// partial yaml document keeps the original tuning for omitted fields.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	p := plain(*NewConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}

	*c = Config(p)
	return nil
}
