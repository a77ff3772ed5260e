// Package buildinfo holds version information stamped in at build time:
//
//	go build -ldflags "-X github.com/matzehuels/gitmaster/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/gitmaster/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/gitmaster/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/gitmaster
package buildinfo

import "fmt"

var (
	// Version is the semantic version, e.g. "v1.2.3".
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns a one-line description such as
// "v1.2.3 (commit abc1234, built 2025-01-02T15:04:05Z)".
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the version template for cobra's --version flag.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
