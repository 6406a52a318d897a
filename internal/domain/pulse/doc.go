// Package pulse contains core domain types for the heartbeat monitor.
//
// It defines Reading (a truncated integer sensor sample), Ratchet (the
// one-directional peak holder published during an alarm) and the explicit
// two-state machine {Normal, Alarm} with its transition guards.
package pulse
