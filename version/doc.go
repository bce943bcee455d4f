// Package version carries build information for the oauthrest binary and
// the default User-Agent sent with every call.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/oauthrest/version.Version=1.0.0"
package version
