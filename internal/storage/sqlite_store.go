package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/tello-tracker/internal/flight"
	"github.com/roman-kulish/tello-tracker/internal/telemetry"
)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a new store backed by the Sqlite database at dbPath. The
// schema is initialized lazily on first write.
func New(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, detector, drone string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, detector, drone, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	if sessionID, err = result.LastInsertId(); err != nil {
		err = fmt.Errorf("getting session id: %w", err)
	}

	return
}

func (s *SqliteStore) StoreTelemetry(ctx context.Context, sessionID int64, t *telemetry.Telemetry) (telemetryID int64, err error) {
	if t == nil {
		err = errors.New("nil telemetry")
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	row := toTelemetryRow(sessionID, t)

	stmt, err := db.PrepareContext(ctx, insertTelemetrySQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx,
		row.SessionID,
		row.Timestamp,
		row.Battery,
		row.Pitch,
		row.Roll,
		row.Yaw,
		row.Height,
		row.Barometer,
		row.TOF,
		row.SpeedX,
		row.SpeedY,
		row.SpeedZ,
		row.AccelX,
		row.AccelY,
		row.AccelZ,
		row.TempLow,
		row.TempHigh,
		row.FlightTime)
	if err != nil {
		err = fmt.Errorf("inserting telemetry: %w", err)
		return
	}

	if telemetryID, err = result.LastInsertId(); err != nil {
		err = fmt.Errorf("getting telemetry id: %w", err)
	}

	return
}

func (s *SqliteStore) StoreTick(ctx context.Context, record *flight.Tick) (err error) {
	if record == nil {
		return errors.New("nil tick record")
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	row := toTickRow(record)

	stmt, err := db.PrepareContext(ctx, insertTickSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	if _, err = stmt.ExecContext(ctx,
		row.SessionID,
		row.Tick,
		row.Timestamp,
		row.Mode,
		row.Detections,
		row.TargetIdentity,
		row.TargetX,
		row.TargetY,
		row.TargetArea,
		row.ErrorX,
		row.CmdYaw,
		row.CmdForward,
		row.TelemetryID); err != nil {
		return fmt.Errorf("inserting tick: %w", err)
	}

	return nil
}

// Close releases both database connections. It is safe to call multiple times.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.writeDB != nil {
			errs = append(errs, s.writeDB.Close())
		}
		if s.readDB != nil {
			errs = append(errs, s.readDB.Close())
		}
		s.closeErr = errors.Join(errs...)
	})

	return s.closeErr
}
