package oauth1

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/oauthrest/params"
)

// OAuth protocol parameter names.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamNonce           = "oauth_nonce"
	ParamSignature       = "oauth_signature"
	ParamSignatureMethod = "oauth_signature_method"
	ParamTimestamp       = "oauth_timestamp"
	ParamToken           = "oauth_token"
	ParamVersion         = "oauth_version"

	SignatureMethodHMACSHA1 = "HMAC-SHA1"
	Version                 = "1.0"
)

// Signer signs a canonical request and returns the OAuth protocol
// parameters, oauth_signature included. Implementations must be safe for
// concurrent use and must not modify query.
type Signer interface {
	Sign(creds *Credentials, method, uri string, query map[string]any) (map[string]string, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(creds *Credentials, method, uri string, query map[string]any) (map[string]string, error)

// Sign calls f.
func (f SignerFunc) Sign(creds *Credentials, method, uri string, query map[string]any) (map[string]string, error) {
	return f(creds, method, uri, query)
}

// HMACSigner signs with HMAC-SHA1. Now and Nonce are injectable so that
// signatures can be reproduced in tests.
type HMACSigner struct {
	Now   func() time.Time
	Nonce func() string
}

// NewHMACSigner returns a signer using the wall clock and random nonces.
func NewHMACSigner() *HMACSigner {
	return &HMACSigner{Now: time.Now, Nonce: newNonce}
}

// Sign implements Signer.
func (s *HMACSigner) Sign(creds *Credentials, method, uri string, query map[string]any) (map[string]string, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	now, nonce := time.Now, newNonce
	if s.Now != nil {
		now = s.Now
	}
	if s.Nonce != nil {
		nonce = s.Nonce
	}

	oauthParams := map[string]string{
		ParamConsumerKey:     creds.ConsumerKey,
		ParamNonce:           nonce(),
		ParamSignatureMethod: SignatureMethodHMACSHA1,
		ParamTimestamp:       strconv.FormatInt(now().Unix(), 10),
		ParamVersion:         Version,
	}
	if creds.Token != "" {
		oauthParams[ParamToken] = creds.Token
	}

	base, err := BaseString(method, uri, query, oauthParams)
	if err != nil {
		return nil, err
	}

	oauthParams[ParamSignature] = SignHMACSHA1(base, creds.ConsumerSecret, creds.TokenSecret)
	return oauthParams, nil
}

// SignHMACSHA1 returns the base64 HMAC-SHA1 of base keyed with
// enc(consumerSecret) "&" enc(tokenSecret).
func SignHMACSHA1(base, consumerSecret, tokenSecret string) string {
	key := PercentEncode(consumerSecret) + "&" + PercentEncode(tokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// BaseString builds the signature base string: the upper-cased method,
// the normalised base URI, and the sorted, encoded parameter list, each
// percent-encoded and joined by "&". Query parameters embedded in uri are
// included; a key also present in query takes the query value only, the
// same overlay the request builder applies on the wire.
func BaseString(method, uri string, query map[string]any, oauthParams map[string]string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}

	var pairs []encodedPair
	add := func(k, v string) {
		pairs = append(pairs, encodedPair{key: PercentEncode(k), value: PercentEncode(v)})
	}
	values := u.Query()
	for k, v := range query {
		values[k] = []string{params.Stringify(v)}
	}
	for k, vs := range values {
		for _, v := range vs {
			add(k, v)
		}
	}
	for k, v := range oauthParams {
		add(k, v)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	joined := make([]string, len(pairs))
	for i, p := range pairs {
		joined[i] = p.key + "=" + p.value
	}

	return strings.ToUpper(method) + "&" +
		PercentEncode(baseURI(u)) + "&" +
		PercentEncode(strings.Join(joined, "&")), nil
}

type encodedPair struct {
	key, value string
}

// baseURI lower-cases scheme and host, drops default ports, the query and
// the fragment.
func baseURI(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	if (scheme == "http" && strings.HasSuffix(host, ":80")) || (scheme == "https" && strings.HasSuffix(host, ":443")) {
		host = host[:strings.LastIndexByte(host, ':')]
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

// PercentEncode encodes s per RFC 3986: everything except unreserved
// characters is escaped with upper-case hex digits.
func PercentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
