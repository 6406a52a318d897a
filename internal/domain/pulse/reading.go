package pulse

import (
	"fmt"
	"strconv"
)

// Unit is the label appended to alarm payloads, beats per unit.
const Unit = "Bps"

// Reading is a truncated integer sensor sample used as the heartbeat metric.
type Reading int

// FromSample truncates a floating-point sensor sample toward zero.
func FromSample(sample float64) Reading {
	return Reading(int(sample))
}

// Exceeds reports whether the reading is strictly above the threshold.
// A reading equal to the threshold does not trip the alarm.
func (r Reading) Exceeds(threshold Reading) bool {
	return r > threshold
}

// String returns the bare integer payload used on the heartbeat topic.
func (r Reading) String() string {
	return strconv.Itoa(int(r))
}

// Bps returns the unit-labelled payload used on the alarm topic, e.g. "200 Bps".
func (r Reading) Bps() string {
	return fmt.Sprintf("%d %s", int(r), Unit)
}

// Ratchet holds the peak reading observed during one alarm episode.
// It moves in one direction only: the peak rises when a higher reading
// arrives and never falls, even if the physical value drops.
type Ratchet struct {
	// peak is the highest reading observed so far.
	peak Reading
}

// NewRatchet seeds a ratchet with the reading that tripped the alarm.
func NewRatchet(initial Reading) *Ratchet {
	return &Ratchet{peak: initial}
}

// Observe feeds a new reading into the ratchet and returns the current peak.
func (t *Ratchet) Observe(r Reading) Reading {
	if r > t.peak {
		t.peak = r
	}

	return t.peak
}

// Peak returns the highest reading observed so far.
func (t *Ratchet) Peak() Reading {
	return t.peak
}
