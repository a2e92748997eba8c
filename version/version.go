// Package version exists solely so that we can store the version of this application
// in one location.
//
// The version is shown in the startup banner, and recorded in our logs, so that
// reports from users can be tied to a release.
package version

import "fmt"

var (
	// version is populated with our release tag, at build-time, via:
	//
	//   go build -ldflags "-X github.com/skx/a2host/version.version=v1.2.3"
	version = "unreleased"
)

// GetVersionBanner returns a banner which is suitable for printing, to show our name,
// version, and homepage link.
func GetVersionBanner() string {
	return fmt.Sprintf("a2host %s\n%s\n", version, "https://github.com/skx/a2host/")
}

// GetVersionString returns our version number as a string.
func GetVersionString() string {
	return version
}
