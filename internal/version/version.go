// Package version holds the build version of entitydoc.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/phillipfoxsmaflex/entitydoc/internal/version.Version=...".
var Version = "0.1.0"
