package storage

import (
	"context"

	"github.com/roman-kulish/tello-tracker/internal/flight"
	"github.com/roman-kulish/tello-tracker/internal/telemetry"
)

// Store provides an interface for managing flight log storage operations.
// It handles sessions, telemetry data, and per-tick control decisions.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateSession initializes a new flight session and returns its
	// unique identifier. Config can be a string, []byte, or any
	// JSON-serializable object.
	CreateSession(ctx context.Context, detector, drone string, config any) (sessionID int64, err error)

	// StoreTelemetry saves a drone telemetry snapshot for a session and
	// returns the identifier of the stored record.
	StoreTelemetry(ctx context.Context, sessionID int64, t *telemetry.Telemetry) (telemetryID int64, err error)

	// StoreTick saves one control loop decision, optionally linked to a
	// telemetry snapshot via record.TelemetryID.
	StoreTick(ctx context.Context, record *flight.Tick) error

	// Session retrieves a specific flight session by its ID; nil when
	// not found.
	Session(ctx context.Context, id int64) (session *flight.Session, err error)

	// Sessions returns all flight sessions ordered by start time.
	Sessions(ctx context.Context) (sessions []*flight.Session, err error)

	// Ticks returns the control decisions of a session in tick order.
	Ticks(ctx context.Context, sessionID int64) (ticks []*flight.Tick, err error)

	// Close releases all database connections and resources. After Close
	// is called, the store instance cannot be reused. It is safe to call
	// Close multiple times.
	Close() error
}
