// Package buildinfo reports the version of the running binary.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/appcore-go/internal/infra/buildinfo.Version=v1.0.0"
//
// When they are not, the module and VCS data embedded by the Go toolchain are
// used where available.
package buildinfo
