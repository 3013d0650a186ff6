package app

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/roman-kulish/tello-tracker/internal/track"
)

const (
	defaultStripHeight   = 140
	defaultStripGap      = 24
	defaultPixelsPerTick = 3
	minChartWidth        = 480

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 70
	defaultBottomBorder = 110
	defaultRightBorder  = 30
)

var (
	colorSearching = color.RGBA{R: 0xef, G: 0xef, B: 0xef, A: 0xff}
	colorGrounded  = color.RGBA{R: 0xd8, G: 0xd8, B: 0xd8, A: 0xff}
	colorAxis      = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
	colorYaw       = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	colorForward   = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	colorError     = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// BorderConfig defines the white space around the chart strips
type BorderConfig struct {
	Top    int // Space for strip titles
	Left   int // Space for the value scale
	Bottom int // Space for the summary bar
	Right  int // Right padding
}

// RenderConfig holds the chart rendering options
type RenderConfig struct {
	PixelsPerTick int
	StripHeight   int
	StripGap      int
	FontFile      string // Empty disables annotations
	Borders       BorderConfig
}

// strip is one horizontal chart band: a signed series drawn as bars
// around a zero axis.
type strip struct {
	title  string
	unit   string
	limit  float64 // symmetric value range, +-limit
	values []float64
	mask   []bool // nil means every tick has a value
	color  color.RGBA
}

// Renderer draws a flight session as stacked command and error strips
// over the tick axis.
type Renderer struct {
	config RenderConfig
}

// NewRenderer creates a new Renderer with defaults for zero values
func NewRenderer(config RenderConfig) *Renderer {
	if config.PixelsPerTick <= 0 {
		config.PixelsPerTick = defaultPixelsPerTick
	}
	if config.StripHeight <= 0 {
		config.StripHeight = defaultStripHeight
	}
	if config.StripGap <= 0 {
		config.StripGap = defaultStripGap
	}
	if config.Borders.Top == 0 {
		config.Borders.Top = defaultTopBorder
	}
	if config.Borders.Left == 0 {
		config.Borders.Left = defaultLeftBorder
	}
	if config.Borders.Bottom == 0 {
		config.Borders.Bottom = defaultBottomBorder
	}
	if config.Borders.Right == 0 {
		config.Borders.Right = defaultRightBorder
	}

	return &Renderer{config: config}
}

// Render creates an image of the session with per-tick command bars,
// mode shading and, when a font is configured, scales and a summary bar.
func (r *Renderer) Render(data *FlightData) (*image.RGBA, error) {
	if len(data.Ticks) == 0 {
		return nil, errors.New("session has no recorded ticks")
	}

	strips := r.buildStrips(data)

	chartWidth := len(data.Ticks) * r.config.PixelsPerTick
	if chartWidth < minChartWidth {
		chartWidth = minChartWidth
	}
	chartHeight := len(strips)*r.config.StripHeight + (len(strips)-1)*r.config.StripGap

	fullWidth := chartWidth + r.config.Borders.Left + r.config.Borders.Right
	fullHeight := chartHeight + r.config.Borders.Top + r.config.Borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for i, s := range strips {
		area := r.stripArea(i, chartWidth)
		r.renderStrip(img, area, data, s)
	}

	if r.config.FontFile == "" {
		return img, nil
	}

	ann, err := newAnnotator(r.config.FontFile, r.config.Borders)
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	areas := make([]image.Rectangle, len(strips))
	for i := range strips {
		areas[i] = r.stripArea(i, chartWidth)
	}
	if err = ann.annotate(img, data, strips, areas); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	return img, nil
}

func (r *Renderer) buildStrips(data *FlightData) []strip {
	errValues, errMask := data.ErrorSeries()

	errLimit := float64(0)
	for i, v := range errValues {
		if !errMask[i] {
			continue
		}
		if v < 0 {
			v = -v
		}
		if v > errLimit {
			errLimit = v
		}
	}
	if errLimit < 10 {
		errLimit = 10
	}

	return []strip{
		{title: "Pixel error", unit: "px", limit: errLimit, values: errValues, mask: errMask, color: colorError},
		{title: "Yaw command", unit: "", limit: 100, values: data.YawSeries(), color: colorYaw},
		{title: "Forward command", unit: "", limit: 100, values: data.ForwardSeries(), color: colorForward},
	}
}

func (r *Renderer) stripArea(index, chartWidth int) image.Rectangle {
	top := r.config.Borders.Top + index*(r.config.StripHeight+r.config.StripGap)
	return image.Rect(
		r.config.Borders.Left,
		top,
		r.config.Borders.Left+chartWidth,
		top+r.config.StripHeight,
	)
}

// renderStrip shades each tick column by flight mode, draws the zero
// axis, then draws the value as a bar from the axis.
func (r *Renderer) renderStrip(img *image.RGBA, area image.Rectangle, data *FlightData, s strip) {
	for i, t := range data.Ticks {
		var bg color.RGBA
		switch t.Mode {
		case track.ModeSearching.String():
			bg = colorSearching
		case track.ModeGrounded.String():
			bg = colorGrounded
		default:
			continue // tracking keeps the white background
		}

		col := image.Rect(
			area.Min.X+i*r.config.PixelsPerTick,
			area.Min.Y,
			area.Min.X+(i+1)*r.config.PixelsPerTick,
			area.Max.Y,
		).Intersect(area)
		draw.Draw(img, col, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	}

	zeroY := area.Min.Y + area.Dy()/2
	for x := area.Min.X; x < area.Max.X; x++ {
		img.Set(x, zeroY, colorAxis)
	}

	halfHeight := float64(area.Dy()) / 2
	for i, v := range s.values {
		if s.mask != nil && !s.mask[i] {
			continue
		}

		barY := zeroY - int(v/s.limit*halfHeight)
		if barY < area.Min.Y {
			barY = area.Min.Y
		}
		if barY > area.Max.Y-1 {
			barY = area.Max.Y - 1
		}

		x0 := area.Min.X + i*r.config.PixelsPerTick
		for x := x0; x < x0+r.config.PixelsPerTick && x < area.Max.X; x++ {
			y0, y1 := zeroY, barY
			if y1 < y0 {
				y0, y1 = y1, y0
			}
			for y := y0; y <= y1; y++ {
				img.Set(x, y, s.color)
			}
		}
	}
}
