package track

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/tello-tracker/internal/vision"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()

	config := NewConfig()
	config.Targets = []string{"alice"}

	m, err := NewMachine(config)
	require.NoError(t, err)
	return m
}

func TestMachine_InvalidConfig(t *testing.T) {
	config := NewConfig()
	config.FBRangeMin = 5000
	config.FBRangeMax = 3000

	_, err := NewMachine(config)
	assert.Error(t, err)
}

func TestMachine_GroundedIssuesNoCommands(t *testing.T) {
	m := newTestMachine(t)

	_, ok := m.Tick([]vision.Detection{det(100, 100, 60, 70, "alice")})
	assert.False(t, ok)
	assert.Equal(t, ModeGrounded, m.Mode())
}

func TestMachine_ArmPreflight(t *testing.T) {
	m := newTestMachine(t)

	err := m.Arm(49)
	require.ErrorIs(t, err, ErrLowBattery)
	assert.Equal(t, ModeGrounded, m.Mode())

	require.NoError(t, m.Arm(50))
	assert.Equal(t, ModeSearching, m.Mode())

	// Arming twice is a programming error.
	assert.Error(t, m.Arm(80))
}

func TestMachine_ModeSequence(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.Arm(80))

	target := []vision.Detection{det(170, 90, 60, 70, "alice")}

	frames := [][]vision.Detection{nil, nil, target, nil}
	wantModes := []Mode{ModeSearching, ModeSearching, ModeTracking, ModeSearching}

	for i, detections := range frames {
		decision, ok := m.Tick(detections)
		require.True(t, ok)
		assert.Equal(t, wantModes[i], decision.Mode, "tick %d", i)
	}

	// The error must have been cleared when the target was lost, so the
	// next acquisition computes its derivative from zero, not stale error.
	decision, ok := m.Tick(target)
	require.True(t, ok)
	assert.Equal(t, ModeTracking, decision.Mode)
	assert.Equal(t, 20.0, decision.ErrorX)
	assert.Equal(t, 16, decision.Command.Yaw)
}

func TestMachine_SearchCommand(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.Arm(80))

	decision, ok := m.Tick(nil)
	require.True(t, ok)

	want := Command{Yaw: DefaultSearchSpeed}
	if diff := cmp.Diff(want, decision.Command); diff != "" {
		t.Errorf("search command mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, decision.HasTarget)
}

// TestMachine_EndToEnd follows one flight through arming and a first
// tracking tick: battery 80 permits takeoff, a single matching face at
// center x 200 in a 360px frame yields error 20, so yaw is
// 0.4*20 + 0.4*(20-0) = 16 and the 4000px² face sits inside the distance
// dead band.
func TestMachine_EndToEnd(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.Arm(80))

	decision, ok := m.Tick([]vision.Detection{
		det(175, 50, 50, 80, "alice"), // center x 200, area 4000
	})
	require.True(t, ok)

	require.True(t, decision.HasTarget)
	assert.Equal(t, 200, decision.Target.CenterX)
	assert.Equal(t, 4000, decision.Target.Area)
	assert.Equal(t, 20.0, decision.ErrorX)

	want := Command{Yaw: 16, ForwardBack: 0}
	if diff := cmp.Diff(want, decision.Command); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_GroundIsTerminal(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.Arm(80))

	m.Ground()
	assert.Equal(t, ModeGrounded, m.Mode())

	_, ok := m.Tick(nil)
	assert.False(t, ok)

	// No re-arming after shutdown, battery level notwithstanding.
	assert.Error(t, m.Arm(100))
}
