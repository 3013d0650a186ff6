package storage

import (
	"database/sql"

	"github.com/roman-kulish/tello-tracker/internal/flight"
	"github.com/roman-kulish/tello-tracker/internal/telemetry"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullIntFrom(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64From(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func toTelemetryRow(sessionID int64, t *telemetry.Telemetry) *telemetryRow {
	return &telemetryRow{
		SessionID:  sessionID,
		Timestamp:  t.Timestamp.UTC(),
		Battery:    nullIntFrom(t.Battery),
		Pitch:      nullFloat64(t.Pitch),
		Roll:       nullFloat64(t.Roll),
		Yaw:        nullFloat64(t.Yaw),
		Height:     nullFloat64(t.Height),
		Barometer:  nullFloat64(t.Barometer),
		TOF:        nullFloat64(t.TOF),
		SpeedX:     nullFloat64(t.SpeedX),
		SpeedY:     nullFloat64(t.SpeedY),
		SpeedZ:     nullFloat64(t.SpeedZ),
		AccelX:     nullFloat64(t.AccelX),
		AccelY:     nullFloat64(t.AccelY),
		AccelZ:     nullFloat64(t.AccelZ),
		TempLow:    nullIntFrom(t.TempLow),
		TempHigh:   nullIntFrom(t.TempHigh),
		FlightTime: nullIntFrom(t.FlightTime),
	}
}

func toTickRow(record *flight.Tick) *tickRow {
	return &tickRow{
		SessionID:      record.SessionID,
		Tick:           record.Tick,
		Timestamp:      record.Timestamp.UTC(),
		Mode:           record.Mode,
		Detections:     record.Detections,
		TargetIdentity: nullString(record.TargetIdentity),
		TargetX:        nullIntFrom(record.TargetX),
		TargetY:        nullIntFrom(record.TargetY),
		TargetArea:     nullIntFrom(record.TargetArea),
		ErrorX:         nullFloat64(record.ErrorX),
		CmdYaw:         record.CmdYaw,
		CmdForward:     record.CmdForward,
		TelemetryID:    nullInt64From(record.TelemetryID),
	}
}

func fromSessionRow(row *sessionRow) *flight.Session {
	session := flight.Session{
		ID:        row.ID,
		StartTime: row.StartTime,
		Detector:  row.Detector,
		Drone:     row.Drone,
	}
	if row.Config.Valid {
		session.Config = &row.Config.String
	}

	return &session
}

func fromTickRow(row *tickRow) *flight.Tick {
	record := flight.Tick{
		ID:         row.ID,
		SessionID:  row.SessionID,
		Tick:       row.Tick,
		Timestamp:  row.Timestamp,
		Mode:       row.Mode,
		Detections: row.Detections,
		CmdYaw:     row.CmdYaw,
		CmdForward: row.CmdForward,
	}

	if row.TargetIdentity.Valid {
		record.TargetIdentity = &row.TargetIdentity.String
	}
	if row.TargetX.Valid {
		v := int(row.TargetX.Int64)
		record.TargetX = &v
	}
	if row.TargetY.Valid {
		v := int(row.TargetY.Int64)
		record.TargetY = &v
	}
	if row.TargetArea.Valid {
		v := int(row.TargetArea.Int64)
		record.TargetArea = &v
	}
	if row.ErrorX.Valid {
		record.ErrorX = &row.ErrorX.Float64
	}
	if row.TelemetryID.Valid {
		record.TelemetryID = &row.TelemetryID.Int64
	}

	return &record
}
