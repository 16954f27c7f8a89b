// Package buildinfo reports the version graphvis was built as.
//
// Release builds stamp the variables with -ldflags "-X ...buildinfo.Version=v0.3.0"
// (likewise Commit and Date). Binaries from go install fall back to the
// module version recorded by the toolchain.
package buildinfo

import (
	"runtime/debug"
	"strings"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if Version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			Version = v
		}
	}
}

// Template is the cobra version template.
func Template() string {
	var b strings.Builder
	b.WriteString("{{.Name}} " + Version + "\n")
	b.WriteString("commit " + Commit + ", built " + Date + "\n")
	return b.String()
}

// UserAgent is sent as the HTTP Server header.
func UserAgent() string { return "graphvis/" + Version }
