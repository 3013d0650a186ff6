package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYawController_ZeroErrorZeroOutput(t *testing.T) {
	c := NewYawController(0.4, 0.4, 360)

	// Target dead center: no previous error, no output.
	assert.Equal(t, 0, c.Compute(180))
}

func TestYawController_FirstTick(t *testing.T) {
	c := NewYawController(0.4, 0.4, 360)

	// error_x = 200 - 180 = 20; with prevError 0 the P and D terms match:
	// 0.4*20 + 0.4*(20-0) = 16.
	assert.Equal(t, 16, c.Compute(200))
	assert.Equal(t, 20.0, c.Error())
}

func TestYawController_DerivativeDamping(t *testing.T) {
	c := NewYawController(0.4, 0.4, 360)

	c.Compute(200) // error 20
	// Second tick, error unchanged: derivative term vanishes, P term remains.
	assert.Equal(t, 8, c.Compute(200))
}

func TestYawController_OutputClamped(t *testing.T) {
	tests := []struct {
		name    string
		kp, kd  float64
		centerX int
		want    int
	}{
		{"extreme positive error", 0.4, 0.4, 10180, VelocityMax},
		{"extreme negative error", 0.4, 0.4, -10000, VelocityMin},
		{"misconfigured gain", 1000, 1000, 360, VelocityMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewYawController(tt.kp, tt.kd, 360)
			assert.Equal(t, tt.want, c.Compute(tt.centerX))
		})
	}
}

func TestYawController_SignConvention(t *testing.T) {
	c := NewYawController(0.4, 0.4, 360)

	// Target left of center: negative error, negative (counter-clockwise) yaw.
	assert.Negative(t, c.Compute(100))

	c.Reset()

	// Target right of center: positive yaw.
	assert.Positive(t, c.Compute(260))
}

func TestYawController_Reset(t *testing.T) {
	c := NewYawController(0.4, 0.4, 360)

	c.Compute(300)
	assert.NotZero(t, c.Error())

	c.Reset()
	assert.Zero(t, c.Error())

	// After a reset the derivative term sees no stale error.
	assert.Equal(t, 16, c.Compute(200))
}
