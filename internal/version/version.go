// Package version provides build-time version information.
// These variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/pyclashbot/memuc/internal/version.Version=v0.3.0 \
//	                   -X github.com/pyclashbot/memuc/internal/version.Commit=abc123 \
//	                   -X github.com/pyclashbot/memuc/internal/version.Date=2026-01-01" \
//	    ./cmd/memuc-go
package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit SHA of the build.
	Commit = "none"

	// Date is the build date in ISO 8601 format.
	Date = "unknown"
)

// String formats the build information on one line.
func String() string {
	return fmt.Sprintf("memuc-go %s (commit %s, built %s)", Version, Commit, Date)
}
