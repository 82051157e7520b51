// Package buildinfo reports how the running binary was built.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Info is the subset of debug.BuildInfo shown by --version.
type Info struct {
	Version  string
	Revision string
	Dirty    bool
	Tags     string
}

// Read returns the build information of the running binary.
func Read() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fromBuildInfo(nil)
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{Version: "dev"}
	if info == nil {
		return out
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		out.Version = v
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "-tags":
			out.Tags = setting.Value
		case "vcs.revision":
			out.Revision = setting.Value
		case "vcs.modified":
			out.Dirty = setting.Value == "true"
		}
	}
	return out
}

// String formats the version followed by the revision and tags when known.
func (i Info) String() string {
	var extra []string
	if i.Revision != "" {
		rev := i.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if i.Dirty {
			rev += "-dirty"
		}
		extra = append(extra, "rev: "+rev)
	}
	if i.Tags != "" {
		extra = append(extra, "tags: "+i.Tags)
	}
	if len(extra) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(extra, ", "))
}

// Version returns the module version or "dev" when unset.
func Version() string {
	return Read().Version
}

// VersionWithTags returns the full version line.
func VersionWithTags() string {
	return Read().String()
}
