package sim

import "sync/atomic"

// Button is a momentary push button. Press latches the input high until the
// next poll consumes it, mimicking a human holding the physical button just
// long enough for one loop iteration to see it.
type Button struct {
	// pressed is the latched input level.
	pressed atomic.Bool
}

// NewButton creates a released simulated button.
func NewButton() *Button {
	return &Button{}
}

// Press latches the button high. Safe to call from any goroutine,
// the daemon wires it to a signal handler.
func (b *Button) Press() {
	b.pressed.Store(true)
}

// Pressed reports and consumes the latched level.
func (b *Button) Pressed() (bool, error) {
	return b.pressed.Swap(false), nil
}
