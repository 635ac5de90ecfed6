// Package version exposes build metadata stamped in by the release
// pipeline, e.g.:
//
//	go build -ldflags "-X github.com/grovetools/refactor/version.Version=v0.3.0"
package version

import (
	"fmt"
	"runtime"
)

// Populated by the linker; the zero values identify a local dev build.
var (
	Version   = "dev"
	Commit    = "none"
	Branch    = "unknown"
	BuildDate = "unknown"
)

// Info is a snapshot of everything known about the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

// GetInfo combines the stamped variables with the runtime's view of the
// toolchain and platform.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Branch:    Branch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the info as an aligned multi-line report.
func (i Info) String() string {
	return fmt.Sprintf(
		"Version:    %s\nCommit:     %s\nBranch:     %s\nBuild Date: %s\nGo Version: %s\nCompiler:   %s\nPlatform:   %s",
		i.Version, i.Commit, i.Branch, i.BuildDate, i.GoVersion, i.Compiler, i.Platform,
	)
}
