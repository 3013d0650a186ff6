package facerec

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	FrameWidthMin  = 160
	FrameWidthMax  = 1280
	FrameHeightMin = 120
	FrameHeightMax = 960

	// ModelHOG is the default face detection model
	ModelHOG Model = "hog"
	ModelCNN Model = "cnn"
)

var validModels = map[Model]struct{}{
	ModelHOG: {},
	ModelCNN: {},
}

// Model is the face detection model used by the `facestream` tool
type Model string

func (m Model) String() string {
	return string(m)
}

// Config is the `facestream` tool configuration. The tool decodes the drone
// video feed, runs face detection and recognition against a set of reference
// images, and writes one JSON line per processed frame to stdout.
type Config struct {
	// Required
	Source      string `yaml:"source"`      // --source video stream URL, e.g. udp://0.0.0.0:11111
	FrameWidth  int    `yaml:"frameWidth"`  // --width processed frame width in pixels
	FrameHeight int    `yaml:"frameHeight"` // --height processed frame height in pixels

	// References maps identity names to reference image paths. Identity
	// names are reported back verbatim in the detection output.
	References map[string]string `yaml:"references"`

	// Optional
	Model     Model   `yaml:"model"`     // --model [hog|cnn] (default: hog)
	Tolerance float64 `yaml:"tolerance"` // --tolerance recognition distance threshold (default: 0.6)
}

func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("facerec.Config: source must not be empty")
	}
	if c.FrameWidth < FrameWidthMin || c.FrameWidth > FrameWidthMax {
		return fmt.Errorf("facerec.Config: invalid frame width: %d, must be between %d and %d", c.FrameWidth, FrameWidthMin, FrameWidthMax)
	}
	if c.FrameHeight < FrameHeightMin || c.FrameHeight > FrameHeightMax {
		return fmt.Errorf("facerec.Config: invalid frame height: %d, must be between %d and %d", c.FrameHeight, FrameHeightMin, FrameHeightMax)
	}
	if len(c.References) == 0 {
		return fmt.Errorf("facerec.Config: at least one reference face is required")
	}
	for name, path := range c.References {
		if name == "" || path == "" {
			return fmt.Errorf("facerec.Config: invalid reference entry: %q: %q", name, path)
		}
	}
	if c.Model != "" {
		if _, ok := validModels[c.Model]; !ok {
			return fmt.Errorf("facerec.Config: invalid model: %s", c.Model)
		}
	}
	if c.Tolerance < 0 || c.Tolerance > 1 {
		return fmt.Errorf("facerec.Config: tolerance must be in [0,1]: %f", c.Tolerance)
	}

	return nil
}

// Args builds the `facestream` command line arguments from the configuration.
// Reference arguments are emitted in name order so the command line is
// reproducible.
func (c *Config) Args() ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	args := []string{
		"--source", c.Source,
		"--width", strconv.Itoa(c.FrameWidth),
		"--height", strconv.Itoa(c.FrameHeight),
		"--format", "jsonl",
	}

	if c.Model != "" {
		args = append(args, "--model", c.Model.String())
	}
	if c.Tolerance > 0 {
		args = append(args, "--tolerance", strconv.FormatFloat(c.Tolerance, 'f', -1, 64))
	}

	names := make([]string, 0, len(c.References))
	for name := range c.References {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		args = append(args, "--reference", fmt.Sprintf("%s=%s", name, c.References[name]))
	}

	return args, nil
}

// Identities returns the identity names of the configured reference faces.
func (c *Config) Identities() []string {
	names := make([]string, 0, len(c.References))
	for name := range c.References {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnmarshalYAML applies defaults before decoding the configuration.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	p := plain{
		Source: "udp://0.0.0.0:11111",
		Model:  ModelHOG,
	}
	if err := value.Decode(&p); err != nil {
		return err
	}

	*c = Config(p)
	return nil
}
