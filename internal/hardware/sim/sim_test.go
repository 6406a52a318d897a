package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vportnov/heart-monitor/internal/hardware"
)

// TestSensorScript verifies samples replay in order and the last one repeats.
func TestSensorScript(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sensor := NewSensor(40, 60, 200)

	for _, want := range []float64{40, 60, 200, 200, 200} {
		got, err := sensor.Read(ctx)
		require.NoError(t, err)
		require.InDelta(t, want, got, 0)
	}
}

// TestWandererStaysBounded checks the random walk never leaves its clamp range.
func TestWandererStaysBounded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	w := NewWanderer(80, 40, 220, 15)

	for i := 0; i < 1000; i++ {
		v, err := w.Read(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 40.0)
		require.LessOrEqual(t, v, 220.0)
	}
}

// TestSwitchHistory checks state and transition recording.
func TestSwitchHistory(t *testing.T) {
	t.Parallel()

	s := NewSwitch("lamp", hardware.Pin(2))
	require.False(t, s.On())

	require.NoError(t, s.Set(true))
	require.NoError(t, s.Set(false))
	require.NoError(t, s.Set(true))

	require.True(t, s.On())
	require.Equal(t, []bool{true, false, true}, s.History())
	require.Equal(t, "lamp", s.Name())
}

// TestButtonIsMomentary verifies a press is consumed by exactly one poll.
func TestButtonIsMomentary(t *testing.T) {
	t.Parallel()

	b := NewButton()

	pressed, err := b.Pressed()
	require.NoError(t, err)
	require.False(t, pressed)

	b.Press()

	pressed, err = b.Pressed()
	require.NoError(t, err)
	require.True(t, pressed)

	// Consumed by the previous poll.
	pressed, err = b.Pressed()
	require.NoError(t, err)
	require.False(t, pressed)
}
