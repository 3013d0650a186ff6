package facerec

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/roman-kulish/tello-tracker/internal/vision"
)

const (
	Runtime  = "facestream"
	Detector = "facerec"
)

// frameLine is one line of `facestream` JSONL output.
type frameLine struct {
	Sequence  uint64     `json:"seq"`
	Timestamp string     `json:"ts"`
	Faces     []faceLine `json:"faces"`
}

type faceLine struct {
	Box        [4]int  `json:"box"` // x, y, width, height
	Name       string  `json:"name,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// handler struct represents a facestream detector handler
type handler struct {
	binPath string
	args    []string
}

// New creates a new facestream detector handler
func New(config *Config) (vision.Handler, error) {
	binPath, err := findRuntime(Runtime)
	if err != nil {
		return nil, fmt.Errorf("error finding runtime: %w", err)
	}

	args, err := config.Args()
	if err != nil {
		return nil, fmt.Errorf("error creating args: %w", err)
	}

	return &handler{binPath, args}, nil
}

// Cmd returns an exec.Cmd for the facestream detector
func (h handler) Cmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, h.binPath, h.args...)
}

// Parse parses a line of facestream output and sends the frame to the channel
func (h handler) Parse(line string, frames chan<- vision.Frame) error {
	var fl frameLine
	if err := json.Unmarshal([]byte(line), &fl); err != nil {
		return fmt.Errorf("invalid facestream output: %w", err)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, fl.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}

	frame := vision.Frame{
		Timestamp:  timestamp,
		Sequence:   fl.Sequence,
		Detections: make([]vision.Detection, 0, len(fl.Faces)),
	}

	for _, face := range fl.Faces {
		if face.Box[2] <= 0 || face.Box[3] <= 0 {
			return fmt.Errorf("invalid bounding box: %v", face.Box)
		}

		frame.Detections = append(frame.Detections, vision.Detection{
			X:          face.Box[0],
			Y:          face.Box[1],
			Width:      face.Box[2],
			Height:     face.Box[3],
			Identity:   face.Name,
			Confidence: face.Confidence,
		})
	}

	frames <- frame
	return nil
}

func (h handler) Detector() string {
	return Detector
}
