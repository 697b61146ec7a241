// Package version exposes the build version stamped in at link time.
package version

// version is overridden via -ldflags "-X prforge/internal/version.version=v1.2.3".
var version = "dev"

// Value returns the build version.
func Value() string {
	return version
}
