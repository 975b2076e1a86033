// Package version reports build information for the engine-connector binary.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/engineconnector/version.Version=1.2.0 \
//	  -X github.com/kbukum/engineconnector/version.BuildTime=2026-01-02T15:04:05Z" ./cmd/engine-connector
//
// Values not set that way fall back to the VCS stamps the Go toolchain embeds.
package version
