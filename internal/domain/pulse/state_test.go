package pulse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNext covers both transition guards of the state machine.
func TestNext(t *testing.T) {
	t.Parallel()

	threshold := Reading(150)

	// Normal stays normal at or below the threshold.
	require.Equal(t, ModeNormal, Next(ModeNormal, 40, threshold, false))
	require.Equal(t, ModeNormal, Next(ModeNormal, 150, threshold, false))

	// Normal trips to alarm strictly above the threshold.
	require.Equal(t, ModeAlarm, Next(ModeNormal, 151, threshold, false))

	// Alarm holds even when the reading falls, reset is the only way out.
	require.Equal(t, ModeAlarm, Next(ModeAlarm, 40, threshold, false))
	require.Equal(t, ModeNormal, Next(ModeAlarm, 220, threshold, true))

	// Reset in normal mode is a no-op.
	require.Equal(t, ModeNormal, Next(ModeNormal, 40, threshold, true))
}

// TestModeString checks log-friendly names.
func TestModeString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "normal", ModeNormal.String())
	require.Equal(t, "alarm", ModeAlarm.String())
	require.Equal(t, "unknown", Mode(42).String())
}
