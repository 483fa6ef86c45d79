package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set at build time via -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is a snapshot of the build identity.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
	Platform  string
}

// Get collects the build identity of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the one-line form printed by default.
func (i Info) String() string {
	return fmt.Sprintf("quill %s (%s, %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString is the multi-line form behind the --full flag.
func (i Info) FullString() string {
	return strings.Join([]string{
		"quill " + i.Version,
		"  commit:   " + i.GitCommit,
		"  built:    " + i.BuildDate,
		"  go:       " + i.GoVersion,
		"  platform: " + i.Platform,
	}, "\n")
}
