package pulse

// Mode is the monitor's operating state.
type Mode uint8

const (
	// ModeNormal is the regular polling state.
	ModeNormal Mode = iota
	// ModeAlarm is entered when a reading exceeds the threshold and is left
	// only when the reset button is pressed.
	ModeAlarm
)

// String returns a human-readable mode name for logging.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeAlarm:
		return "alarm"
	default:
		return "unknown"
	}
}

// Next computes the following mode from the current one.
// Normal moves to Alarm when the reading strictly exceeds the threshold.
// Alarm moves back to Normal only when the reset input is asserted,
// regardless of how far the reading has fallen.
func Next(current Mode, reading, threshold Reading, resetPressed bool) Mode {
	switch current {
	case ModeNormal:
		if reading.Exceeds(threshold) {
			return ModeAlarm
		}

		return ModeNormal
	case ModeAlarm:
		if resetPressed {
			return ModeNormal
		}

		return ModeAlarm
	default:
		return current
	}
}
