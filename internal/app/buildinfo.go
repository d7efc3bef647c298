package app

import "fmt"

// Build information populated via -ldflags, e.g.
//
//	-X github.com/hyperifyio/goscrape/internal/app.BuildVersion=1.2.3
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// VersionString formats the build information for -version and startup logs.
func VersionString() string {
	return fmt.Sprintf("goscrape %s (commit %s, built %s)", BuildVersion, BuildCommit, BuildDate)
}
