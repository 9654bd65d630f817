// Package version holds build metadata injected at link time via -ldflags.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit the binary was built from.
	Commit = "none"

	// BuildDate is the UTC build timestamp.
	BuildDate = "unknown"
)
