package httpclient

import (
	"net/http"
	"testing"
)

func TestAuthConfig_Apply(t *testing.T) {
	tests := []struct {
		name  string
		auth  *AuthConfig
		check func(t *testing.T, r *http.Request)
	}{
		{"basic", BasicAuth("u", "p"), func(t *testing.T, r *http.Request) {
			u, p, ok := r.BasicAuth()
			if !ok || u != "u" || p != "p" {
				t.Errorf("unexpected basic auth %q %q %v", u, p, ok)
			}
		}},
		{"bearer", BearerAuth("tok"), func(t *testing.T, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("got %q", got)
			}
		}},
		{"api key header default", &AuthConfig{Type: AuthAPIKey, Key: "k"}, func(t *testing.T, r *http.Request) {
			if got := r.Header.Get(defaultAPIKeyHeader); got != "k" {
				t.Errorf("got %q", got)
			}
		}},
		{"api key named header", APIKeyAuth("k", "X-Key"), func(t *testing.T, r *http.Request) {
			if got := r.Header.Get("X-Key"); got != "k" {
				t.Errorf("got %q", got)
			}
		}},
		{"api key query", &AuthConfig{Type: AuthAPIKey, Key: "k", Name: "api_key", InQuery: true}, func(t *testing.T, r *http.Request) {
			if got := r.URL.Query().Get("api_key"); got != "k" {
				t.Errorf("got %q", got)
			}
		}},
		{"custom", CustomAuth(func(r *http.Request) { r.Header.Set("X-Custom", "1") }), func(t *testing.T, r *http.Request) {
			if got := r.Header.Get("X-Custom"); got != "1" {
				t.Errorf("got %q", got)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "https://x.test/path?a=1", nil)
			if err := tt.auth.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			tt.auth.apply(req)
			tt.check(t, req)
		})
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	invalid := []*AuthConfig{
		{Type: AuthBasic},
		{Type: AuthBearer},
		{Type: AuthAPIKey},
		{Type: AuthCustom},
		{Type: "digest"},
	}
	for _, a := range invalid {
		if err := a.Validate(); err == nil {
			t.Errorf("expected error for %+v", a)
		}
	}

	var nilAuth *AuthConfig
	if err := nilAuth.Validate(); err != nil {
		t.Errorf("nil auth should be valid: %v", err)
	}
}
