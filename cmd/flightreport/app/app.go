package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/roman-kulish/tello-tracker/internal/flight"
	"github.com/roman-kulish/tello-tracker/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.New(config.DBPath)
	defer store.Close()

	return renderSession(ctx, store, config, logger)
}

func renderSession(ctx context.Context, store storage.Store, config *Config, logger *slog.Logger) error {
	session, err := store.Session(ctx, config.SessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %d not found", config.SessionID)
	}

	records, err := store.Ticks(ctx, config.SessionID)
	if err != nil {
		return err
	}

	ticks := make([]flight.Tick, len(records))
	for i, record := range records {
		ticks[i] = *record
	}

	data := NewFlightData(session, ticks)

	logger.Info("loaded flight session",
		slog.Group("session",
			slog.Int64("id", session.ID),
			slog.String("detector", session.Detector),
			slog.String("started", session.StartTime.Local().Format(time.DateTime)),
			slog.Int("ticks", len(ticks)),
			slog.String("duration", data.Duration().Round(time.Second).String()),
			slog.String("tracking", fmt.Sprintf("%.0f%%", data.TrackingRatio()*100)),
		))

	renderConfig := RenderConfig{}
	if !config.NoAnnotations {
		renderConfig.FontFile = config.FontFile
	}

	img, err := NewRenderer(renderConfig).Render(data)
	if err != nil {
		return fmt.Errorf("rendering flight report: %w", err)
	}

	logger.Info("writing flight report",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", img.Bounds().Dx()),
			slog.Int("height", img.Bounds().Dy()),
		))

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}
