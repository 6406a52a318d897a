// Package hardware defines the narrow device interfaces the monitor loop
// consumes. Real sensor and GPIO drivers live outside this repository and
// plug in by implementing these interfaces; the sim subpackage provides
// in-memory implementations for development and tests.
package hardware
