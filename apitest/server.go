package apitest

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/oauthrest/oauth1"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Recorded is one request as the server received it.
type Recorded struct {
	Method  string
	Path    string
	Query   url.Values
	Header  http.Header
	Form    url.Values
	Body    []byte
	Cookies []*http.Cookie
	// OAuthError is the signature check result when RequireOAuth is active.
	OAuthError error
}

// Server is a gin-backed fake API on an httptest.Server. Unmatched routes
// answer 200 with a JSON echo of method, path and query.
type Server struct {
	engine *gin.Engine
	ts     *httptest.Server

	mu       sync.Mutex
	requests []Recorded
	creds    *oauth1.Credentials
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.record)
	s.engine.NoRoute(echo)

	s.ts = httptest.NewServer(s.engine)
	t.Cleanup(s.ts.Close)
	return s
}

// URL returns the base URL, without a trailing slash.
func (s *Server) URL() string {
	return s.ts.URL
}

// Handle registers a route.
func (s *Server) Handle(method, path string, h gin.HandlerFunc) {
	s.engine.Handle(method, path, h)
}

// RequireOAuth rejects requests whose OAuth1 signature does not verify
// against creds with 401.
func (s *Server) RequireOAuth(creds *oauth1.Credentials) {
	s.mu.Lock()
	s.creds = creds
	s.mu.Unlock()
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request, or false if none arrived.
func (s *Server) Last() (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	rec := Recorded{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.Query(),
		Header:  c.Request.Header.Clone(),
		Body:    body,
		Cookies: c.Request.Cookies(),
	}
	if mt, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type")); mt == "application/x-www-form-urlencoded" {
		rec.Form, _ = url.ParseQuery(string(body))
	}

	s.mu.Lock()
	creds := s.creds
	s.mu.Unlock()
	if creds != nil {
		rec.OAuthError = verify(creds, c.Request, rec)
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	if rec.OAuthError != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": rec.OAuthError.Error()})
		return
	}
	c.Next()
}

func verify(creds *oauth1.Credentials, r *http.Request, rec Recorded) error {
	params := make(map[string]any)
	for k, vs := range rec.Query {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	for k, vs := range rec.Form {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	uri := "http://" + r.Host + r.URL.EscapedPath()
	return oauth1.Verify(creds, r.Method, uri, params, r.Header.Get(oauth1.HeaderAuthorization))
}

func echo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"query":  c.Request.URL.Query(),
	})
}
