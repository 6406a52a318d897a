package sim

import (
	"sync"

	"github.com/vportnov/heart-monitor/internal/hardware"
)

// Switch is an in-memory binary output that records every transition,
// so tests can assert on the exact on/off pattern the monitor drives.
type Switch struct {
	// mu protects state and history.
	mu sync.Mutex
	// name identifies the device in assertions ("lamp", "buzzer").
	name string
	// pin is the configured pin label, unused beyond identification.
	pin hardware.Pin
	// on is the current output level.
	on bool
	// history records every Set call in order.
	history []bool
}

// NewSwitch creates a named simulated switch on the given pin label.
func NewSwitch(name string, pin hardware.Pin) *Switch {
	return &Switch{name: name, pin: pin}
}

// Set drives the output and records the transition.
func (s *Switch) Set(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.on = on
	s.history = append(s.history, on)

	return nil
}

// On reports the current output level.
func (s *Switch) On() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.on
}

// Name returns the device name the switch was created with.
func (s *Switch) Name() string {
	return s.name
}

// History returns a copy of all recorded transitions in order.
func (s *Switch) History() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]bool, len(s.history))
	copy(out, s.history)

	return out
}
