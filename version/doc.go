// Package version reports the restspec build version.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/restspec/version.Version=1.0.0" ./cmd/restspec
package version
