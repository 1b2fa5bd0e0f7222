// Package version identifies the build.
package version

// Current is set at build time with -ldflags "-X github.com/pashabitz/liquidity/pkg/version.Current=v1.2.3".
var Current = "dev"

// AppName is the binary name.
const AppName = "liquidity"

// AppID tags AWS requests made by this build, e.g. "liquidity-v1.2.3".
func AppID() string {
	return AppName + "-" + Current
}
