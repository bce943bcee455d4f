package oauth1

import (
	"crypto/subtle"
	"fmt"
	"net/url"
	"strings"
)

// ParseAuthorizationHeader parses an `OAuth k="v", ...` header value into
// decoded parameters.
func ParseAuthorizationHeader(value string) (map[string]string, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "OAuth ")
	if !ok {
		return nil, fmt.Errorf("oauth1: not an OAuth authorization header")
	}

	out := make(map[string]string)
	for _, field := range strings.Split(rest, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		k, v, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("oauth1: malformed parameter %q", field)
		}
		v = strings.Trim(v, `"`)
		key, err := url.PathUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("oauth1: parameter name %q: %w", k, err)
		}
		val, err := url.PathUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("oauth1: parameter %q: %w", key, err)
		}
		out[key] = val
	}
	return out, nil
}

// Verify recomputes the HMAC-SHA1 signature of a received request and
// compares it with the one carried in header. params are the decoded query
// and form parameters; uri is the request URL as seen by the receiver.
func Verify(creds *Credentials, method, uri string, params map[string]any, header string) error {
	oauthParams, err := ParseAuthorizationHeader(header)
	if err != nil {
		return err
	}
	got, ok := oauthParams[ParamSignature]
	if !ok {
		return fmt.Errorf("oauth1: missing %s", ParamSignature)
	}
	delete(oauthParams, ParamSignature)

	if m := oauthParams[ParamSignatureMethod]; m != SignatureMethodHMACSHA1 {
		return fmt.Errorf("oauth1: unsupported signature method %q", m)
	}
	if oauthParams[ParamConsumerKey] != creds.ConsumerKey {
		return fmt.Errorf("oauth1: unknown consumer key %q", oauthParams[ParamConsumerKey])
	}

	base, err := BaseString(method, uri, params, oauthParams)
	if err != nil {
		return err
	}
	want := SignHMACSHA1(base, creds.ConsumerSecret, creds.TokenSecret)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return fmt.Errorf("oauth1: signature mismatch")
	}
	return nil
}
