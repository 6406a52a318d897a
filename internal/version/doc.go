// Package version exposes build metadata (version, commit, build time)
// injected via ldflags and a cobra subcommand to print it.
package version
