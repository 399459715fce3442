// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/isncsci-mcp-server/internal/version.Version=...".
package version

// Version of the binaries
var Version = "v1.0.0"
