package oauth1

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/oauthrest/errors"
)

// Reference request from the Twitter "creating a signature" guide.
var (
	refCreds = &Credentials{
		ConsumerKey:    "xvz1evFS4wEEPTGEFPHBog",
		ConsumerSecret: "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
		Token:          "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
		TokenSecret:    "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
	}
	refQuery = map[string]any{
		"include_entities": "true",
		"status":           "Hello Ladies + Gentlemen, a signed OAuth request!",
	}
)

func refSigner() *HMACSigner {
	return &HMACSigner{
		Now:   func() time.Time { return time.Unix(1318622958, 0) },
		Nonce: func() string { return "kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg" },
	}
}

func TestHMACSigner_ReferenceSignature(t *testing.T) {
	signed, err := refSigner().Sign(refCreds, "post", "https://api.twitter.com/1.1/statuses/update.json", refQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := signed[ParamSignature]; got != "hCtSmYh+iHYCEqBWrE7C7hYmtUk=" {
		t.Errorf("signature = %q, want hCtSmYh+iHYCEqBWrE7C7hYmtUk=", got)
	}
	if signed[ParamTimestamp] != "1318622958" {
		t.Errorf("unexpected timestamp %q", signed[ParamTimestamp])
	}
	if signed[ParamToken] != refCreds.Token {
		t.Errorf("unexpected token %q", signed[ParamToken])
	}
	if _, ok := signed["status"]; ok {
		t.Error("request params must not leak into signed params")
	}
}

func TestHMACSigner_QueryNotModified(t *testing.T) {
	q := map[string]any{"id": "1"}
	if _, err := refSigner().Sign(refCreds, "GET", "https://api.example.com/x", q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q) != 1 {
		t.Errorf("query was modified: %v", q)
	}
}

func TestHMACSigner_TwoLegged(t *testing.T) {
	creds := &Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"}
	signed, err := refSigner().Sign(creds, "GET", "https://api.example.com/x", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := signed[ParamToken]; ok {
		t.Error("expected no oauth_token without a token")
	}
}

func TestHMACSigner_InvalidCredentials(t *testing.T) {
	_, err := NewHMACSigner().Sign(&Credentials{ConsumerKey: "only-key"}, "GET", "https://api.example.com/x", nil)
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestHMACSigner_RandomNonce(t *testing.T) {
	s := NewHMACSigner()
	a, _ := s.Sign(refCreds, "GET", "https://api.example.com/x", nil)
	b, _ := s.Sign(refCreds, "GET", "https://api.example.com/x", nil)
	if a[ParamNonce] == b[ParamNonce] {
		t.Error("expected distinct nonces")
	}
	if strings.Contains(a[ParamNonce], "-") {
		t.Errorf("nonce should be alphanumeric, got %q", a[ParamNonce])
	}
}

func TestBaseString_NormalisesURI(t *testing.T) {
	got, err := BaseString("get", "HTTPS://API.Example.com:443/1.1/show.json?b=2&a=1", map[string]any{"c": []string{"x", "y"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "GET&https%3A%2F%2Fapi.example.com%2F1.1%2Fshow.json&a%3D1%26b%3D2%26c%3Dx%252Cy"
	if got != want {
		t.Errorf("BaseString =\n%q\nwant\n%q", got, want)
	}
}

func TestPercentEncode(t *testing.T) {
	tests := map[string]string{
		"abcXYZ019-._~": "abcXYZ019-._~",
		"a b":           "a%20b",
		"a+b":           "a%2Bb",
		"!*'()":         "%21%2A%27%28%29",
		"☃":             "%E2%98%83",
	}
	for in, want := range tests {
		if got := PercentEncode(in); got != want {
			t.Errorf("PercentEncode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAuthorizationHeader(t *testing.T) {
	got := AuthorizationHeader(map[string]string{
		ParamSignature:   "a+b=",
		ParamConsumerKey: "key",
		"status":         "ignored",
	})
	want := `OAuth oauth_consumer_key="key", oauth_signature="a%2Bb%3D"`
	if got != want {
		t.Errorf("AuthorizationHeader = %q, want %q", got, want)
	}
}

func TestSignerFunc(t *testing.T) {
	var s Signer = SignerFunc(func(_ *Credentials, method, _ string, _ map[string]any) (map[string]string, error) {
		return map[string]string{ParamSignature: method}, nil
	})
	signed, _ := s.Sign(nil, "PUT", "", nil)
	if signed[ParamSignature] != "PUT" {
		t.Errorf("unexpected %v", signed)
	}
}

func TestCredentials_IsZero(t *testing.T) {
	var nilCreds *Credentials
	if !nilCreds.IsZero() || !(&Credentials{}).IsZero() {
		t.Error("expected zero credentials")
	}
	if refCreds.IsZero() {
		t.Error("expected non-zero credentials")
	}
}

func TestBaseString_SortsByNameThenValue(t *testing.T) {
	got, err := BaseString("GET", "https://api.example.com/p?a=2&a=1", map[string]any{"a-b": "3"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "GET&https%3A%2F%2Fapi.example.com%2Fp&a%3D1%26a%3D2%26a-b%3D3"
	if got != want {
		t.Errorf("BaseString =\n%q\nwant\n%q", got, want)
	}
}

func TestBaseString_QueryOverridesEmbeddedKey(t *testing.T) {
	got, err := BaseString("GET", "https://x.test/search?a=1&b=2", map[string]any{"a": "3"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := BaseString("GET", "https://x.test/search?b=2", map[string]any{"a": "3"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if strings.Contains(got, "a%3D1") {
		t.Errorf("expected overridden a=1 dropped, got %q", got)
	}
}
