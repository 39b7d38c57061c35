// Package buildinfo reports which build of the promiscuity tree-enumeration
// engine is running. The CLI prints it for --version and the HTTP API returns
// it from /health, so cached results and batch outputs can be traced to a build.
//
// The values are stamped at link time:
//
//	go build -ldflags "-X github.com/matzehuels/promiscuity/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/promiscuity/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/promiscuity/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/promiscuity
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// Commit is the short git SHA the binary was built from.
	Commit = "none"
	// Date is the UTC build time.
	Date = "unknown"
)

// String returns a one-line summary such as
// "promiscuity dev (commit none, built unknown, go1.24.0)".
func String() string {
	return fmt.Sprintf("promiscuity %s (commit %s, built %s, %s)", Version, Commit, Date, runtime.Version())
}

// Template returns the cobra version template. It keeps {{.Name}} so the
// command name shown matches the invoked binary.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s: GFL/CBB dependency-tree enumerator\ncommit: %s\nbuilt: %s (%s)\n",
		Version, Commit, Date, runtime.Version())
}
