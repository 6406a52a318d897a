// Package telemetry connects the device to an MQTT broker. The Hub wraps
// the paho client with account-scoped topic namespacing, publish/subscribe
// helpers and generated client identities, so callers deal only in short
// topic names like "HeartBeat".
package telemetry
