package tello

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAddress is the Tello command channel when joined to its Wi-Fi network
	DefaultAddress = "192.168.10.1:8889"

	// DefaultStatePort is the local UDP port the drone pushes state packets to
	DefaultStatePort = 8890

	// DefaultResponseTimeout bounds the wait for a command acknowledgement.
	// Takeoff is the slowest command the SDK acknowledges.
	DefaultResponseTimeout = 10 * time.Second
)

// Duration is a time.Duration that decodes from yaml strings like "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	duration, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("tello.Duration: failed to parse: %s", err)
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config is the Tello SDK client configuration
type Config struct {
	Address         string   `yaml:"address"`         // Drone command address, host:port
	StatePort       int      `yaml:"statePort"`       // Local UDP port for state packets
	ResponseTimeout Duration `yaml:"responseTimeout"` // Wait bound for command acknowledgements
}

// NewConfig returns a Config with the standard Tello network settings.
func NewConfig() *Config {
	return &Config{
		Address:         DefaultAddress,
		StatePort:       DefaultStatePort,
		ResponseTimeout: Duration(DefaultResponseTimeout),
	}
}

func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("tello.Config: address must not be empty")
	}
	if c.StatePort <= 0 || c.StatePort > 65535 {
		return fmt.Errorf("tello.Config: invalid state port: %d", c.StatePort)
	}
	if time.Duration(c.ResponseTimeout) <= 0 {
		return fmt.Errorf("tello.Config: response timeout must be positive: %s", time.Duration(c.ResponseTimeout))
	}

	return nil
}

// UnmarshalYAML applies defaults before decoding the configuration.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	p := plain(*NewConfig())
	if err := value.Decode(&p); err != nil {
		return err
	}

	*c = Config(p)
	return nil
}
