// Package version carries build metadata stamped in via -ldflags.
package version

// Defaults identify a local dev build; releases overwrite all three.
//
//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
