// Package component defines the lifecycle contract shared by the long-lived
// pieces of an oauthrest process: the HTTP client and the rate limiter.
//
// A Registry starts components in registration order, stops them in reverse
// and collects their health and descriptions.
package component
