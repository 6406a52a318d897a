// Package watch implements the heart-watch companion service: it subscribes
// to the monitor's heartbeat and alarm topics and logs the published values.
package watch
