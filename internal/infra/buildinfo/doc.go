// Package buildinfo provides build information for hllrcon.
//
// This package exposes build-time information injected via ldflags:
//
//   - Version: Semantic version (e.g., "1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version (defaults to the running toolchain)
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/hllrcon-go/internal/infra/buildinfo.Version=1.0.0"
package buildinfo
