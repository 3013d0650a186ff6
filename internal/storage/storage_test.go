package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/tello-tracker/internal/flight"
	"github.com/roman-kulish/tello-tracker/internal/telemetry"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	store := New(filepath.Join(t.TempDir(), "flight.sqlite"))
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStore_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "facerec", "192.168.10.1:8889", map[string]int{"minBattery": 50})
	require.NoError(t, err)
	require.Positive(t, id)

	session, err := store.Session(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, id, session.ID)
	assert.Equal(t, "facerec", session.Detector)
	assert.Equal(t, "192.168.10.1:8889", session.Drone)
	require.NotNil(t, session.Config)
	assert.JSONEq(t, `{"minBattery":50}`, *session.Config)

	missing, err := store.Session(ctx, id+1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_Sessions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		_, err := store.CreateSession(ctx, "facerec", "192.168.10.1:8889", nil)
		require.NoError(t, err)
	}

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}

func TestStore_TickRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sessionID, err := store.CreateSession(ctx, "facerec", "192.168.10.1:8889", nil)
	require.NoError(t, err)

	battery := 80
	telemetryID, err := store.StoreTelemetry(ctx, sessionID, &telemetry.Telemetry{
		Timestamp: time.Now(),
		Battery:   &battery,
	})
	require.NoError(t, err)
	require.Positive(t, telemetryID)

	identity := "alice"
	targetX, targetY, targetArea := 200, 120, 4000
	errorX := 20.0

	records := []*flight.Tick{
		{
			SessionID:  sessionID,
			Tick:       1,
			Timestamp:  time.Now(),
			Mode:       "searching",
			Detections: 0,
			CmdYaw:     20,
		},
		{
			SessionID:      sessionID,
			Tick:           2,
			Timestamp:      time.Now(),
			Mode:           "tracking",
			Detections:     2,
			TargetIdentity: &identity,
			TargetX:        &targetX,
			TargetY:        &targetY,
			TargetArea:     &targetArea,
			ErrorX:         &errorX,
			CmdYaw:         16,
			CmdForward:     0,
			TelemetryID:    &telemetryID,
		},
	}

	for _, record := range records {
		require.NoError(t, store.StoreTick(ctx, record))
	}

	ticks, err := store.Ticks(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, ticks, 2)

	assert.Equal(t, "searching", ticks[0].Mode)
	assert.Nil(t, ticks[0].TargetIdentity)
	assert.Equal(t, 20, ticks[0].CmdYaw)

	second := ticks[1]
	assert.Equal(t, "tracking", second.Mode)
	require.NotNil(t, second.TargetIdentity)
	assert.Equal(t, "alice", *second.TargetIdentity)
	require.NotNil(t, second.TargetArea)
	assert.Equal(t, 4000, *second.TargetArea)
	require.NotNil(t, second.ErrorX)
	assert.Equal(t, 20.0, *second.ErrorX)
	require.NotNil(t, second.TelemetryID)
	assert.Equal(t, telemetryID, *second.TelemetryID)
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "flight.sqlite"))

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
