package facerec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/tello-tracker/internal/vision"
)

func testConfig() *Config {
	return &Config{
		Source:      "udp://0.0.0.0:11111",
		FrameWidth:  360,
		FrameHeight: 240,
		References: map[string]string{
			"alice": "images/reference/alice.jpg",
			"bob":   "images/reference/bob.jpg",
		},
	}
}

func TestConfig_Args(t *testing.T) {
	config := testConfig()
	config.Model = ModelHOG
	config.Tolerance = 0.6

	args, err := config.Args()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--source", "udp://0.0.0.0:11111",
		"--width", "360",
		"--height", "240",
		"--format", "jsonl",
		"--model", "hog",
		"--tolerance", "0.6",
		"--reference", "alice=images/reference/alice.jpg",
		"--reference", "bob=images/reference/bob.jpg",
	}, args)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty source", func(c *Config) { c.Source = "" }},
		{"frame width too small", func(c *Config) { c.FrameWidth = 100 }},
		{"frame height too large", func(c *Config) { c.FrameHeight = 2000 }},
		{"no references", func(c *Config) { c.References = nil }},
		{"empty reference path", func(c *Config) { c.References = map[string]string{"alice": ""} }},
		{"unknown model", func(c *Config) { c.Model = "dnn" }},
		{"tolerance out of range", func(c *Config) { c.Tolerance = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestConfig_YAMLDefaults(t *testing.T) {
	doc := `
frameWidth: 360
frameHeight: 240
references:
  alice: images/reference/alice.jpg
`
	var config Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &config))

	assert.Equal(t, "udp://0.0.0.0:11111", config.Source)
	assert.Equal(t, ModelHOG, config.Model)
	assert.Equal(t, []string{"alice"}, config.Identities())
}

func TestHandler_Parse(t *testing.T) {
	h := handler{}
	frames := make(chan vision.Frame, 1)

	line := `{"seq":42,"ts":"2026-08-27T10:15:04.5Z","faces":[` +
		`{"box":[120,40,60,70],"name":"alice","confidence":0.92},` +
		`{"box":[10,20,30,40]}]}`

	require.NoError(t, h.Parse(line, frames))

	frame := <-frames
	assert.Equal(t, uint64(42), frame.Sequence)
	require.Len(t, frame.Detections, 2)

	first := frame.Detections[0]
	assert.Equal(t, "alice", first.Identity)
	assert.Equal(t, 150, first.CenterX())
	assert.Equal(t, 4200, first.Area())
	assert.Equal(t, 0.92, first.Confidence)

	second := frame.Detections[1]
	assert.False(t, second.Known())
}

func TestHandler_ParseEmptyFrame(t *testing.T) {
	h := handler{}
	frames := make(chan vision.Frame, 1)

	require.NoError(t, h.Parse(`{"seq":1,"ts":"2026-08-27T10:15:04Z","faces":[]}`, frames))

	frame := <-frames
	assert.Empty(t, frame.Detections)
}

func TestHandler_ParseErrors(t *testing.T) {
	h := handler{}
	frames := make(chan vision.Frame, 1)

	tests := []struct {
		name string
		line string
	}{
		{"not json", "pitch:0;roll:0;"},
		{"bad timestamp", `{"seq":1,"ts":"yesterday","faces":[]}`},
		{"degenerate box", `{"seq":1,"ts":"2026-08-27T10:15:04Z","faces":[{"box":[0,0,0,0]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, h.Parse(tt.line, frames))
		})
	}
}
