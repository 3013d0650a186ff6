package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roman-kulish/tello-tracker/internal/flight"
)

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *flight.Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var row sessionRow
	err = db.QueryRowContext(ctx, selectSessionSQL, id).Scan(
		&row.ID,
		&row.StartTime,
		&row.Detector,
		&row.Drone,
		&row.Config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting session: %w", err)
	}

	return fromSessionRow(&row), nil
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*flight.Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		return nil, fmt.Errorf("selecting sessions: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var row sessionRow
		if err = rows.Scan(
			&row.ID,
			&row.StartTime,
			&row.Detector,
			&row.Drone,
			&row.Config); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}

		sessions = append(sessions, fromSessionRow(&row))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

func (s *SqliteStore) Ticks(ctx context.Context, sessionID int64) (ticks []*flight.Tick, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectTicksSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("selecting ticks: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var row tickRow
		if err = rows.Scan(
			&row.ID,
			&row.SessionID,
			&row.Tick,
			&row.Timestamp,
			&row.Mode,
			&row.Detections,
			&row.TargetIdentity,
			&row.TargetX,
			&row.TargetY,
			&row.TargetArea,
			&row.ErrorX,
			&row.CmdYaw,
			&row.CmdForward,
			&row.TelemetryID); err != nil {
			return nil, fmt.Errorf("scanning tick: %w", err)
		}

		ticks = append(ticks, fromTickRow(&row))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticks: %w", err)
	}

	return ticks, nil
}
