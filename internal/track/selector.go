package track

import (
	"github.com/roman-kulish/tello-tracker/internal/vision"
)

// Selector picks at most one detection per frame as the tracking target.
// Only detections whose identity is in the configured allow set are
// considered; among those the largest bounding box wins, with ties broken
// by the lowest bounding box X coordinate so the choice is reproducible.
type Selector struct {
	identities map[string]struct{}
}

// NewSelector creates a Selector tracking the given identity names.
func NewSelector(identities []string) *Selector {
	allow := make(map[string]struct{}, len(identities))
	for _, name := range identities {
		allow[name] = struct{}{}
	}

	return &Selector{identities: allow}
}

// Select returns the target for this frame, or false when no detection
// matches a tracked identity. It is a pure function of its input.
func (s *Selector) Select(detections []vision.Detection) (Target, bool) {
	var best vision.Detection
	var found bool

	for _, d := range detections {
		if _, ok := s.identities[d.Identity]; !ok || !d.Known() {
			continue
		}

		if !found || better(d, best) {
			best = d
			found = true
		}
	}

	if !found {
		return Target{}, false
	}

	return newTarget(best), true
}

// better reports whether a should be preferred over b: larger area first,
// then lower X on equal area.
func better(a, b vision.Detection) bool {
	if a.Area() != b.Area() {
		return a.Area() > b.Area()
	}
	return a.X < b.X
}
