// Package version holds build metadata injected at link time.
package version

var (
	// Version is the version of this build.
	Version = "dev"
	// GitCommit is the git commit this build was produced from.
	GitCommit = "unknown"
)
