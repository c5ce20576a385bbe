// Package version provides the blendctl tool version.
package version

// Version is the blendctl tool version.
// Can be overridden at build time with:
//   go build -ldflags "-X github.com/downblend/blendopt/pkg/version.Version=2.0.1"
var Version = "dev"
