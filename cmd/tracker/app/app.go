package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/tello-tracker/internal/drone/tello"
	"github.com/roman-kulish/tello-tracker/internal/storage"
	"github.com/roman-kulish/tello-tracker/internal/track"
	"github.com/roman-kulish/tello-tracker/internal/vision"
	"github.com/roman-kulish/tello-tracker/internal/vision/facerec"
)

const (
	storageDir = "data"
)

// Run wires the components from the configuration and flies one tracking
// session. A preflight failure (battery below floor) is returned as an
// error wrapping track.ErrLowBattery.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer func() {
		if cErr := store.Close(); cErr != nil {
			logger.Error(fmt.Sprintf("closing storage: %s", cErr))
		}
	}()

	machine, err := track.NewMachine(&config.Tracking)
	if err != nil {
		return err
	}

	handler, err := facerec.New(&config.Detector)
	if err != nil {
		return fmt.Errorf("failed to create detector: %w", err)
	}
	pipeline := vision.NewPipeline(handler, vision.WithLogger(logger))

	dr, err := tello.New(&config.Drone, tello.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create drone client: %w", err)
	}
	defer func() {
		if cErr := dr.Close(); cErr != nil {
			logger.Error(fmt.Sprintf("closing drone client: %s", cErr))
		}
	}()

	if err = dr.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to drone: %w", err)
	}

	orchestrator := NewOrchestrator(machine, dr, pipeline, logger,
		WithStore(store),
		WithTelemetry(dr),
		WithSearchDelay(time.Duration(config.Flight.SearchDelay)),
		WithTakeoffHeight(config.Flight.TakeoffHeight),
		WithSessionInfo(facerec.Detector, config.Drone.Address, &config.Tracking))

	started := time.Now()
	err = orchestrator.Run(ctx)

	if sessionID := orchestrator.SessionID(); sessionID > 0 {
		logger.Info("flight session recorded",
			slog.Int64("session", sessionID),
			slog.String("duration", humanize.RelTime(started, time.Now(), "", "")))
	}

	if err != nil && errors.Is(err, track.ErrLowBattery) {
		logger.Error("battery below takeoff floor, charge before flying")
	}

	return err
}

func createStorage(config *StorageConfig) (storage.Store, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	var dbPath string
	if config.DataDirectory != "" {
		dbPath = filepath.Join(wd, config.DataDirectory)
	} else {
		dbPath = filepath.Join(wd, storageDir)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage directory '%s' does not exist: %w", dbPath, err)
		}
		return nil, fmt.Errorf("invalid storage directory '%s': %w", dbPath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dbPath)
	}

	dbPath = filepath.Join(dbPath, fmt.Sprintf("flight_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.New(dbPath), nil
}
