package hardware

import "context"

// Pin is a numeric hardware pin assignment carried from configuration into
// device constructors. Simulated devices keep it as a label only.
type Pin uint8

// Sensor is a distance-style sensor exposing a single read operation.
// The returned value is in centimeters; the monitor uses it as a stand-in
// beats-per-unit metric.
type Sensor interface {
	Read(ctx context.Context) (float64, error)
}

// Switch is a binary output device: the visual alarm lamp (digital pin) and
// the buzzer (PWM pin at fixed 50% duty, on = sound, off = silence).
type Switch interface {
	Set(on bool) error
}

// Button is a digital input pulled low by default. Pressed reports the
// instantaneous level; there is no debounce, a single high reading counts.
type Button interface {
	Pressed() (bool, error)
}
