package version

import (
	"runtime/debug"
	"strings"
	"sync"
)

// SemVer is set at build time for releases.
//
//	-ldflags "-X github.com/Oudwins/devtaskflow/internals/version.SemVer=1.2.3"
var SemVer = "0.0.0-dev"

var readBuildInfo = debug.ReadBuildInfo

var (
	revisionOnce sync.Once
	revisionVal  string
)

// Version returns SemVer with the VCS revision appended as build metadata
// when the binary carries one, e.g. 1.2.3+a1b2c3d4e5f6.dirty.
func Version() string {
	v := strings.TrimSpace(SemVer)
	if v == "" {
		v = "0.0.0-dev"
	}
	meta := Revision()
	if meta == "" {
		return v
	}
	if strings.Contains(v, "+") {
		return v + "." + meta
	}
	return v + "+" + meta
}

// Revision is the short VCS revision of this build, or "" if unknown.
func Revision() string {
	revisionOnce.Do(func() {
		revisionVal = computeRevision()
	})
	return revisionVal
}

func computeRevision() string {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return ""
	}

	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = strings.TrimSpace(s.Value)
		case "vcs.modified":
			v := strings.TrimSpace(strings.ToLower(s.Value))
			dirty = v == "true" || v == "1"
		}
	}
	if revision == "" {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		return revision + ".dirty"
	}
	return revision
}
