package app

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	dpi      = 96.0
	fontSize = 11.0

	tickMarkWidth  = 5
	pixelsPerLabel = 120
)

type annotator struct {
	context  *freetype.Context
	fontFace font.Face
	borders  BorderConfig
}

func newAnnotator(fontFile string, borders BorderConfig) (*annotator, error) {
	fontBytes, err := os.ReadFile(fontFile)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(fontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		borders: borders,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    fontSize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, data *FlightData, strips []strip, areas []image.Rectangle) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	for i, s := range strips {
		if err := a.drawStripLabels(img, s, areas[i]); err != nil {
			return fmt.Errorf("drawing strip labels: %w", err)
		}
	}

	if err := a.drawTickScale(img, data, areas[len(areas)-1]); err != nil {
		return fmt.Errorf("drawing tick scale: %w", err)
	}
	if err := a.drawSummary(img, data); err != nil {
		return fmt.Errorf("drawing summary: %w", err)
	}

	return nil
}

// drawStripLabels draws the strip title above the band and the value
// range on the left edge.
func (a *annotator) drawStripLabels(img *image.RGBA, s strip, area image.Rectangle) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	title := s.title
	if s.unit != "" {
		title = fmt.Sprintf("%s (%s)", s.title, s.unit)
	}
	pt := freetype.Pt(area.Min.X, area.Min.Y-fontHeight/2)
	if _, err := a.context.DrawString(title, pt); err != nil {
		return err
	}

	labels := []struct {
		value float64
		y     int
	}{
		{s.limit, area.Min.Y},
		{0, area.Min.Y + area.Dy()/2},
		{-s.limit, area.Max.Y},
	}
	for _, l := range labels {
		for x := area.Min.X - tickMarkWidth; x < area.Min.X; x++ {
			img.Set(x, l.y, color.Black)
		}

		label := fmt.Sprintf("%d", int(l.value))
		width := font.MeasureString(a.fontFace, label)
		textY := l.y + fontHeight/2 - metrics.Descent.Round()
		pt = freetype.Pt(area.Min.X-tickMarkWidth-3-width.Round(), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return err
		}
	}

	return nil
}

// drawTickScale draws tick numbers under the bottom strip.
func (a *annotator) drawTickScale(img *image.RGBA, data *FlightData, area image.Rectangle) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	pxPerTick := area.Dx() / len(data.Ticks)
	if pxPerTick == 0 {
		pxPerTick = 1
	}

	step := pixelsPerLabel / pxPerTick
	if step == 0 {
		step = 1
	}

	for i := 0; i < len(data.Ticks); i += step {
		x := area.Min.X + i*pxPerTick

		for y := area.Max.Y; y < area.Max.Y+tickMarkWidth; y++ {
			img.Set(x, y, color.Black)
		}

		label := humanize.Comma(data.Ticks[i].Tick)
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-width.Round()/2, area.Max.Y+tickMarkWidth+fontHeight)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return err
		}
	}

	return nil
}

// drawSummary draws the session summary lines in the bottom border.
func (a *annotator) drawSummary(img *image.RGBA, data *FlightData) error {
	metrics := a.fontFace.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Round() + 4

	lines := []string{
		fmt.Sprintf("Flight start: %s; duration: %s; ticks: %s",
			data.Ticks[0].Timestamp.Local().Format(time.DateTime),
			data.Duration().Round(time.Second),
			humanize.Comma(int64(len(data.Ticks)))),
		fmt.Sprintf("Tracking coverage: %.0f%%", data.TrackingRatio()*100),
	}

	if stats, ok := data.ErrorStats(); ok {
		lines = append(lines, fmt.Sprintf("Pixel error: mean %+.1f, stddev %.1f, range [%+.0f, %+.0f]",
			stats.Mean, stats.StdDev, stats.Min, stats.Max))
	}

	yawStats := data.YawStats()
	lines = append(lines, fmt.Sprintf("Yaw command: mean %+.1f, stddev %.1f", yawStats.Mean, yawStats.StdDev))

	top := img.Bounds().Max.Y - a.borders.Bottom + 2*lineHeight
	pt := freetype.Pt(a.borders.Left, top)
	for _, line := range lines {
		if _, err := a.context.DrawString(line, pt); err != nil {
			return err
		}
		pt.Y += a.context.PointToFixed(fontSize * 1.3)
	}

	return nil
}
