// Package version holds build information injected by the linker, for example
// go build -ldflags "-X github.com/cgorski/glow-effects/version.GitHash=$(git rev-parse HEAD)"
package version

var (
	// BuildTime is the time at which the binary was built
	BuildTime string = "unknown"

	// GitHash is the commit the binary was built from
	GitHash string = "unknown"
)
