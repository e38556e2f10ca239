// Package version exposes build metadata for the crdschema command.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the application version, set via ldflags.
	Version = "dev"
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = getRevision()
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// String returns a one-line summary of the build, e.g.
// "crdschema dev (revision abc123, go1.25.0 linux/amd64)".
func String(program string) string {
	s := fmt.Sprintf("%s %s (revision %s, %s %s/%s)", program, Version, Revision, GoVersion, GoOS, GoArch)
	if BuildDate != "" {
		s += fmt.Sprintf(" built %s", BuildDate)
		if BuildUser != "" {
			s += " by " + BuildUser
		}
	}

	if Branch != "" {
		s += " from " + Branch
	}

	return s
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
