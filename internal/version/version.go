// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Short returns the version number.
func Short() string {
	return Version
}

// Info returns the full version description.
func Info() string {
	return fmt.Sprintf("leethint %s\n  commit: %s\n  built:  %s\n  go:     %s",
		Version, Commit, BuildTime, runtime.Version())
}
