package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time DATETIME NOT NULL,
    detector   TEXT NOT NULL,
    drone      TEXT NOT NULL,
    config     TEXT
);

CREATE TABLE IF NOT EXISTS telemetry (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id  INTEGER NOT NULL REFERENCES sessions (id),
    timestamp   DATETIME NOT NULL,
    battery     INTEGER,
    pitch       REAL,
    roll        REAL,
    yaw         REAL,
    height      REAL,
    barometer   REAL,
    tof         REAL,
    speed_x     REAL,
    speed_y     REAL,
    speed_z     REAL,
    accel_x     REAL,
    accel_y     REAL,
    accel_z     REAL,
    temp_low    INTEGER,
    temp_high   INTEGER,
    flight_time INTEGER
);

CREATE TABLE IF NOT EXISTS ticks (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id      INTEGER NOT NULL REFERENCES sessions (id),
    tick            INTEGER NOT NULL,
    timestamp       DATETIME NOT NULL,
    mode            TEXT NOT NULL,
    detections      INTEGER NOT NULL,
    target_identity TEXT,
    target_x        INTEGER,
    target_y        INTEGER,
    target_area     INTEGER,
    error_x         REAL,
    cmd_yaw         INTEGER NOT NULL,
    cmd_forward     INTEGER NOT NULL,
    telemetry_id    INTEGER REFERENCES telemetry (id)
);

CREATE INDEX IF NOT EXISTS idx_telemetry_session ON telemetry (session_id);
CREATE INDEX IF NOT EXISTS idx_ticks_session ON ticks (session_id, tick);
`

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      detector,
                      drone,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    detector,
    drone,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    detector,
    drone,
    config
FROM sessions
ORDER BY start_time`

	insertTelemetrySQL = `
INSERT INTO telemetry (session_id,
                       timestamp,
                       battery,
                       pitch,
                       roll,
                       yaw,
                       height,
                       barometer,
                       tof,
                       speed_x,
                       speed_y,
                       speed_z,
                       accel_x,
                       accel_y,
                       accel_z,
                       temp_low,
                       temp_high,
                       flight_time)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertTickSQL = `
INSERT INTO ticks (session_id,
                   tick,
                   timestamp,
                   mode,
                   detections,
                   target_identity,
                   target_x,
                   target_y,
                   target_area,
                   error_x,
                   cmd_yaw,
                   cmd_forward,
                   telemetry_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectTicksSQL = `
SELECT
    id,
    session_id,
    tick,
    timestamp,
    mode,
    detections,
    target_identity,
    target_x,
    target_y,
    target_area,
    error_x,
    cmd_yaw,
    cmd_forward,
    telemetry_id
FROM ticks
WHERE
    session_id = ?
ORDER BY tick`
)
