// internal/version/version.go
package version

// Version is stamped at build time:
//
//	go build -ldflags "-X porecat/internal/version.Version=v0.3.0" ./cmd/porecat
var Version = "dev"
