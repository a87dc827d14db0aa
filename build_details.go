package oasdecode

import (
	"fmt"
	"runtime"
)

var (
	// version, commit and buildTime are set via ldflags during release builds.
	// Development builds show "dev" and "unknown".
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the git commit of the build or 'unknown'
func Commit() string {
	return commit
}

// BuildTime returns the RFC3339 build timestamp or 'unknown'
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go version the binary was built with
func GoVersion() string {
	return runtime.Version()
}

// BuildInfo returns the build metadata as printed by "oasdecode version".
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild Time: %s\nGo Version: %s",
		Version(), Commit(), BuildTime(), GoVersion())
}
