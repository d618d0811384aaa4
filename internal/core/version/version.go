// Package version reports the build stamped into a binary
package version

// BuildInfo holds version information about the running binary
type BuildInfo struct {
	Service string `json:"service" example:"certifica-api"`
	Version string `json:"version" example:"v0.3.0"`
	Commit  string `json:"commit"  example:"4f2a9c1"`
	Date    string `json:"date"    example:"2026-03-14"`
}

// set with -ldflags "-X 'certifica/internal/core/version.version=v0.3.0'
// -X 'certifica/internal/core/version.commit=4f2a9c1' -X 'certifica/internal/core/version.date=2026-03-14'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	if service == "" {
		service = "certifica"
	}
	return BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
}

// String renders a one-line banner for logs and --version flags
func (b BuildInfo) String() string {
	return b.Service + " " + b.Version + " (" + b.Commit + ", " + b.Date + ")"
}
