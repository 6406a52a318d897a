// Package monitor implements the heartbeat monitor loop: it polls the
// sensor, publishes readings to the telemetry hub, and drives the buzzer
// and alarm lamp through the {Normal, Alarm} state machine until the reset
// button acknowledges an alarm.
package monitor
