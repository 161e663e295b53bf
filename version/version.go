// Package version holds build information for the feed-loader binary.
package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

const unknownValue = "unknown"

// Set at build time with -ldflags "-X github.com/richardwooding/feed-loader/version.Version=..."
var (
	Version   = "dev"
	GitCommit = unknownValue
	BuildDate = unknownValue
)

// Info describes the running binary
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
}

var buildInfo = sync.OnceValue(func() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	info.Version = strings.TrimPrefix(info.Version, "v")
	return info
})

// fillFromBuildInfo only fills values that were not set through ldflags
func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == unknownValue {
				info.GitCommit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if info.BuildDate == unknownValue {
				info.BuildDate = setting.Value
			}
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Get returns the build information
func Get() Info {
	return buildInfo()
}

// String returns the version with the commit appended when known
func (i Info) String() string {
	if i.GitCommit != unknownValue && i.GitCommit != "" {
		return i.Version + "-" + i.GitCommit
	}
	return i.Version
}

// UserAgent is the User-Agent sent with every feed request
func UserAgent() string {
	return "feed-loader/" + Get().Version
}
