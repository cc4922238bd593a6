package version

import (
	"fmt"
	"runtime/debug"
)

// Version contains the application version information.
// Set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/sdkdocs/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by `sdkdocs --version`. When no
// ldflags were supplied the module version from the binary's build info is used.
func String() string {
	v := Version
	if v == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return fmt.Sprintf("sdkdocs %s (commit %s, built %s)", v, GitCommit, BuildTime)
}
