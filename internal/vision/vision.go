package vision

import "time"

// Detection is a single recognized face within a processed video frame.
// Coordinates are pixels in the detector's processed frame, origin at the
// top-left corner.
type Detection struct {
	X          int     // Left edge of the bounding box
	Y          int     // Top edge of the bounding box
	Width      int     // Bounding box width
	Height     int     // Bounding box height
	Identity   string  // Recognized identity, or empty when unknown
	Confidence float64 // Recognition confidence in [0,1], 0 when not reported
}

// CenterX returns the horizontal center of the bounding box.
func (d Detection) CenterX() int {
	return d.X + d.Width/2
}

// CenterY returns the vertical center of the bounding box.
func (d Detection) CenterY() int {
	return d.Y + d.Height/2
}

// Area returns the bounding box area in square pixels.
func (d Detection) Area() int {
	return d.Width * d.Height
}

// Known reports whether the detection carries a recognized identity.
func (d Detection) Known() bool {
	return d.Identity != ""
}

// Frame is the full detection result for one video frame. An empty
// Detections slice is a valid frame: the detector saw no faces.
type Frame struct {
	Timestamp  time.Time   // When the frame was processed
	Sequence   uint64      // Monotonic frame counter assigned by the detector
	Detections []Detection // Faces found in this frame, possibly empty
}
