package httpclient

import (
	"fmt"
	"net/http"
)

// AuthType names a transport-level authentication scheme applied on top of
// (or instead of) the OAuth1 Authorization header.
type AuthType string

const (
	AuthBasic  AuthType = "basic"
	AuthBearer AuthType = "bearer"
	AuthAPIKey AuthType = "api_key"
	AuthCustom AuthType = "custom"
)

const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig configures request authentication. It is applied after the
// request headers, so a scheme that writes Authorization replaces an OAuth1
// header produced by the assembler.
type AuthConfig struct {
	Type AuthType `yaml:"type" mapstructure:"type"`

	// Username and Password are used by AuthBasic.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// Token is used by AuthBearer.
	Token string `yaml:"token" mapstructure:"token"`

	// Key is the API key. InQuery sends it as a query parameter instead of
	// a header; Name is the header or parameter name (default X-API-Key).
	Key     string `yaml:"key" mapstructure:"key"`
	Name    string `yaml:"name" mapstructure:"name"`
	InQuery bool   `yaml:"in_query" mapstructure:"in_query"`

	// Apply is the request modifier for AuthCustom.
	Apply func(*http.Request) `yaml:"-" mapstructure:"-"`
}

// BasicAuth returns an HTTP Basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// BearerAuth returns a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuth returns an API key auth config sent in the named header.
func APIKeyAuth(key, header string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Name: header}
}

// CustomAuth returns an auth config that runs fn on the outgoing request.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// Validate checks that the fields required by Type are set.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBasic:
		if a.Username == "" {
			return fmt.Errorf("httpclient: basic auth requires a username")
		}
	case AuthBearer:
		if a.Token == "" {
			return fmt.Errorf("httpclient: bearer auth requires a token")
		}
	case AuthAPIKey:
		if a.Key == "" {
			return fmt.Errorf("httpclient: api_key auth requires a key")
		}
	case AuthCustom:
		if a.Apply == nil {
			return fmt.Errorf("httpclient: custom auth requires an Apply function")
		}
	case "":
	default:
		return fmt.Errorf("httpclient: unknown auth type %q", a.Type)
	}
	return nil
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = defaultAPIKeyHeader
		}
		if a.InQuery {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
			return
		}
		req.Header.Set(name, a.Key)
	case AuthCustom:
		a.Apply(req)
	}
}
