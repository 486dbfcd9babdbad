// Package version carries build metadata stamped at link time.
package version

// Version is the release version, overridden via -ldflags at build time.
var Version = "dev"

// GitHash is the commit hash the binary was built from.
var GitHash = "<unknown>"

// String renders the version line shown by the version command.
func String() string {
	return Version + " (" + GitHash + ")"
}
