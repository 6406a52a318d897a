// Package config loads, validates and persists the YAML settings shared by
// the heart-monitor binaries. Environment variables prefixed with
// HEART_MONITOR_ override file values, so credentials can be injected
// without editing the settings file.
package config
