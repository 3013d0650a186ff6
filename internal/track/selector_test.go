package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/tello-tracker/internal/vision"
)

func det(x, y, w, h int, identity string) vision.Detection {
	return vision.Detection{X: x, Y: y, Width: w, Height: h, Identity: identity}
}

func TestSelector_NoMatch(t *testing.T) {
	s := NewSelector([]string{"alice"})

	tests := []struct {
		name       string
		detections []vision.Detection
	}{
		{"empty frame", nil},
		{"only unknown faces", []vision.Detection{det(10, 10, 50, 60, "")}},
		{"only untracked identities", []vision.Detection{
			det(10, 10, 50, 60, "bob"),
			det(100, 10, 80, 90, "carol"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := s.Select(tt.detections)
			assert.False(t, ok)
		})
	}
}

func TestSelector_LargestAreaWins(t *testing.T) {
	s := NewSelector([]string{"alice", "bob"})

	detections := []vision.Detection{
		det(10, 10, 40, 40, "alice"),  // area 1600
		det(200, 50, 70, 80, "bob"),   // area 5600, largest
		det(120, 30, 60, 60, "alice"), // area 3600
		det(0, 0, 90, 90, ""),         // area 8100 but unknown, ignored
	}

	target, ok := s.Select(detections)
	require.True(t, ok)
	assert.Equal(t, "bob", target.Identity)
	assert.Equal(t, 5600, target.Area)
	assert.Equal(t, 235, target.CenterX)
	assert.Equal(t, 90, target.CenterY)
}

func TestSelector_TieBreakByLowestX(t *testing.T) {
	s := NewSelector([]string{"alice", "bob"})

	detections := []vision.Detection{
		det(150, 20, 50, 50, "alice"),
		det(40, 80, 50, 50, "bob"), // same area, lower x
	}

	first, ok := s.Select(detections)
	require.True(t, ok)
	assert.Equal(t, "bob", first.Identity)
	assert.Equal(t, 40, first.X)

	// Deterministic: the same input always yields the same target.
	second, ok := s.Select(detections)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestSelector_PureFunction(t *testing.T) {
	s := NewSelector([]string{"alice"})

	detections := []vision.Detection{det(10, 10, 50, 60, "alice")}
	_, ok := s.Select(detections)
	require.True(t, ok)

	// A later empty frame yields no target: nothing is carried over.
	_, ok = s.Select(nil)
	assert.False(t, ok)
}
