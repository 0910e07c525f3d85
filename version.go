package audiotag

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/simonhull/audiotag/internal/types"
)

// Version is the semantic version of the audiotag library.
//
// FLAC writes record it in the Vorbis comment vendor string.
const Version = types.Version

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	Revision  string // VCS revision, "unknown" outside a VCS build
	Modified  bool   // built from a dirty tree
	GoVersion string
}

// String renders the info on one line, e.g. "0.2.0 (abc1234, go1.26.0)".
func (v VersionInfo) String() string {
	rev := v.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if v.Modified {
		rev += "+dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", v.Version, rev, v.GoVersion)
}

// GetVersionInfo returns version details read from the binary's embedded
// build information.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{Version: Version, Revision: "unknown", GoVersion: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
