// Package version holds the build version of the simplemdm binary.
package version

// Version is set at link time via
// `-ldflags -X simplemdm/internal/version.Version=...`.
var Version string

const fallback = "dev"

// String returns Version, or "dev" for local builds.
func String() string {
	if Version != "" {
		return Version
	}
	return fallback
}
