// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Megaloader is the canonical application identifier used for filesystem paths and CLI branding.
	Megaloader = "megaloader"

	// Version is the current application semantic version string.
	Version = "0.2.0"

	// UserAgent is the stable client identifier sent with every request to a hosting platform.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
