package pulse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFromSample verifies truncation toward zero, not rounding.
func TestFromSample(t *testing.T) {
	t.Parallel()

	require.Equal(t, Reading(40), FromSample(40.0))
	require.Equal(t, Reading(150), FromSample(150.9))
	require.Equal(t, Reading(199), FromSample(199.99))
	require.Equal(t, Reading(0), FromSample(0.7))
}

// TestExceeds verifies the threshold comparison is strict.
func TestExceeds(t *testing.T) {
	t.Parallel()

	threshold := Reading(150)

	require.False(t, Reading(149).Exceeds(threshold))
	require.False(t, Reading(150).Exceeds(threshold))
	require.True(t, Reading(151).Exceeds(threshold))
}

// TestPayloads checks the topic payload formats.
func TestPayloads(t *testing.T) {
	t.Parallel()

	require.Equal(t, "42", Reading(42).String())
	require.Equal(t, "200 Bps", Reading(200).Bps())
}

// TestRatchetNeverDecreases feeds a fluctuating sequence and checks the peak
// is monotonically non-decreasing.
func TestRatchetNeverDecreases(t *testing.T) {
	t.Parallel()

	ratchet := NewRatchet(200)

	require.Equal(t, Reading(200), ratchet.Observe(180))
	require.Equal(t, Reading(220), ratchet.Observe(220))
	require.Equal(t, Reading(220), ratchet.Observe(90))
	require.Equal(t, Reading(220), ratchet.Peak())
}
