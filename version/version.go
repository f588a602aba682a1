// Package version reports how the envsetup binary was built.
package version

import (
	"fmt"
	"runtime/debug"
)

const unavailable = "unavailable"

// FromBuildInfo describes the running binary for the --version flag.
func FromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unavailable
	}

	return Describe(info)
}

// Describe prefers the module version and falls back to VCS settings for development builds.
func Describe(info *debug.BuildInfo) string {
	var revision, ts string

	modified := false

	for i := range info.Settings {
		switch info.Settings[i].Key {
		case "vcs.revision":
			revision = info.Settings[i].Value
		case "vcs.time":
			ts = info.Settings[i].Value
		case "vcs.modified":
			modified = info.Settings[i].Value == "true"
		default:
			continue
		}
	}

	if v := info.Main.Version; v != "" && v != "(devel)" {
		return fmt.Sprintf("envsetup %s (%s)", v, info.GoVersion)
	}

	if revision == "" {
		return "envsetup " + unavailable
	}

	if len(revision) > 12 {
		revision = revision[:12]
	}

	if modified {
		revision += "-dirty"
	}

	if ts == "" {
		return fmt.Sprintf("envsetup built from revision %s (%s)", revision, info.GoVersion)
	}

	return fmt.Sprintf("envsetup built from revision %s at %s (%s)", revision, ts, info.GoVersion)
}
