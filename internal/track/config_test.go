package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfig_Defaults(t *testing.T) {
	config := NewConfig()

	require.NoError(t, config.Validate())
	assert.Equal(t, 360, config.FrameWidth)
	assert.Equal(t, 240, config.FrameHeight)
	assert.Equal(t, 0.4, config.PIDKp)
	assert.Equal(t, 0.4, config.PIDKd)
	assert.Equal(t, 3000, config.FBRangeMin)
	assert.Equal(t, 5000, config.FBRangeMax)
	assert.Equal(t, 25, config.FBSpeed)
	assert.Equal(t, 20, config.SearchSpeed)
	assert.Equal(t, 50, config.MinBattery)
}

func TestConfig_PartialYAMLKeepsDefaults(t *testing.T) {
	doc := `
pidKp: 0.5
targets: [alice]
`
	var config Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &config))

	assert.Equal(t, 0.5, config.PIDKp)
	assert.Equal(t, 0.4, config.PIDKd)
	assert.Equal(t, 360, config.FrameWidth)
	assert.Equal(t, []string{"alice"}, config.Targets)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frame width", func(c *Config) { c.FrameWidth = 0 }},
		{"negative gain", func(c *Config) { c.PIDKp = -0.1 }},
		{"negative fb range min", func(c *Config) { c.FBRangeMin = -1 }},
		{"inverted fb range", func(c *Config) { c.FBRangeMin = 5000; c.FBRangeMax = 3000 }},
		{"fb speed too large", func(c *Config) { c.FBSpeed = 101 }},
		{"zero search speed", func(c *Config) { c.SearchSpeed = 0 }},
		{"battery floor above 100", func(c *Config) { c.MinBattery = 101 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}
