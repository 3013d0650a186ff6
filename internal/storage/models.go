package storage

import (
	"database/sql"
	"time"
)

type sessionRow struct {
	ID        int64
	StartTime time.Time
	Detector  string
	Drone     string
	Config    sql.NullString
}

type telemetryRow struct {
	SessionID  int64
	Timestamp  time.Time
	Battery    sql.NullInt64
	Pitch      sql.NullFloat64
	Roll       sql.NullFloat64
	Yaw        sql.NullFloat64
	Height     sql.NullFloat64
	Barometer  sql.NullFloat64
	TOF        sql.NullFloat64
	SpeedX     sql.NullFloat64
	SpeedY     sql.NullFloat64
	SpeedZ     sql.NullFloat64
	AccelX     sql.NullFloat64
	AccelY     sql.NullFloat64
	AccelZ     sql.NullFloat64
	TempLow    sql.NullInt64
	TempHigh   sql.NullInt64
	FlightTime sql.NullInt64
}

type tickRow struct {
	ID             int64
	SessionID      int64
	Tick           int64
	Timestamp      time.Time
	Mode           string
	Detections     int
	TargetIdentity sql.NullString
	TargetX        sql.NullInt64
	TargetY        sql.NullInt64
	TargetArea     sql.NullInt64
	ErrorX         sql.NullFloat64
	CmdYaw         int
	CmdForward     int
	TelemetryID    sql.NullInt64
}
