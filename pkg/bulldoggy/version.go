// Package bulldoggy carries the build and version information reported by
// the bulldoggy binary.
package bulldoggy

import (
	"fmt"
	"runtime"
	"strings"
)

// Version information
const (
	Version   = "0.1.0"
	AppName   = "Bulldoggy"
	UserAgent = "bulldoggy/" + Version
)

// BuildInfo contains build information
var BuildInfo = struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
}{
	Version:   Version,
	GoVersion: runtime.Version(),
}

// SetBuildInfo is called by main with values injected through -ldflags.
func SetBuildInfo(commit, date string) {
	BuildInfo.GitCommit = commit
	BuildInfo.BuildDate = date
}

// VersionInfo returns a one-line version string
func VersionInfo() string {
	if BuildInfo.GitCommit == "" {
		return fmt.Sprintf("%s %s", AppName, BuildInfo.Version)
	}
	return fmt.Sprintf("%s %s (%s)", AppName, BuildInfo.Version, shortCommit(BuildInfo.GitCommit))
}

// FullVersionInfo returns detailed version information
func FullVersionInfo() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", AppName, BuildInfo.Version)
	fmt.Fprintf(&b, "Go Version: %s\n", BuildInfo.GoVersion)

	if BuildInfo.GitCommit != "" {
		fmt.Fprintf(&b, "Git Commit: %s\n", BuildInfo.GitCommit)
	}
	if BuildInfo.BuildDate != "" {
		fmt.Fprintf(&b, "Build Date: %s\n", BuildInfo.BuildDate)
	}

	return b.String()
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
