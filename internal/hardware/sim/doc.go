// Package sim provides in-memory implementations of the hardware device
// interfaces: a scripted sensor and a random-walk sensor, a transition
// recording switch, and a momentary button.
package sim
