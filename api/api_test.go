package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/oauthrest/apitest"
	"github.com/kbukum/oauthrest/errors"
	"github.com/kbukum/oauthrest/httpclient"
	"github.com/kbukum/oauthrest/oauth1"
	"github.com/kbukum/oauthrest/request"
)

var creds = &oauth1.Credentials{
	ConsumerKey:    "xvz1evFS4wEEPTGEFPHBog",
	ConsumerSecret: "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
	Token:          "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
	TokenSecret:    "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
}

func bodyString(r *httpclient.Response) any { return string(r.Body) }

func newAPI(t *testing.T, srv *apitest.Server, opts ...Option) *API {
	t.Helper()
	client, err := httpclient.New(httpclient.Config{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	t.Cleanup(client.Close)

	opts = append([]Option{WithBaseURL(srv.URL() + "/1.1/"), WithCredentials(creds)}, opts...)
	a, err := New(client, nil, opts...)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return a
}

func TestAPI_SignedGetReachesServer(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireOAuth(creds)
	srv.Handle(http.MethodGet, "/1.1/users/show.json", func(c *gin.Context) {
		c.String(http.StatusOK, c.Query("screen_name"))
	})
	a := newAPI(t, srv)

	result, err := a.Do(context.Background(), http.MethodGet, "users/show.json", request.Options{
		Params:   map[string]any{"screen-name": "bob"},
		Handlers: &httpclient.Handlers{OnSuccess: bodyString},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result != "bob" {
		t.Errorf("expected bob, got %v", result)
	}

	rec, _ := srv.Last()
	if rec.OAuthError != nil {
		t.Errorf("signature rejected: %v", rec.OAuthError)
	}
	if len(rec.Body) != 0 {
		t.Errorf("GET must not carry a body, got %q", rec.Body)
	}
}

func TestAPI_SignedPostSendsForm(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireOAuth(creds)
	a := newAPI(t, srv)

	_, err := a.Do(context.Background(), http.MethodPost, "/statuses/update.json", request.Options{
		Params:   map[string]any{"status": "Hello Ladies + Gentlemen, a signed OAuth request!", "include-entities": true},
		Handlers: &httpclient.Handlers{OnSuccess: bodyString},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	rec, _ := srv.Last()
	if rec.OAuthError != nil {
		t.Fatalf("signature rejected: %v", rec.OAuthError)
	}
	if rec.Form.Get("status") != "Hello Ladies + Gentlemen, a signed OAuth request!" || rec.Form.Get("include_entities") != "true" {
		t.Errorf("unexpected form %v", rec.Form)
	}
	if len(rec.Query) != 0 {
		t.Errorf("expected empty query, got %v", rec.Query)
	}
}

func TestAPI_SignedMultipartKeepsParamsInQuery(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireOAuth(creds)
	a := newAPI(t, srv)

	_, err := a.Do(context.Background(), http.MethodPost, "/media/upload.json", request.Options{
		Params:   map[string]any{"media-category": "tweet_image"},
		Body:     []httpclient.Part{httpclient.BytesPart("media", "a.png", []byte("PNG"), "image/png")},
		Handlers: &httpclient.Handlers{OnSuccess: bodyString},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	rec, _ := srv.Last()
	if rec.OAuthError != nil {
		t.Fatalf("signature rejected: %v", rec.OAuthError)
	}
	if rec.Query.Get("media_category") != "tweet_image" {
		t.Errorf("expected param in query, got %v", rec.Query)
	}
	if !strings.HasPrefix(rec.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
		t.Errorf("unexpected content type %q", rec.Header.Get("Content-Type"))
	}
}

func TestAPI_URITemplate(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireOAuth(creds)
	a := newAPI(t, srv)

	_, err := a.Do(context.Background(), http.MethodGet, "/lists/{list-id}/members.json", request.Options{
		Params:   map[string]any{"list-id": 42},
		Handlers: &httpclient.Handlers{OnSuccess: bodyString},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	rec, _ := srv.Last()
	if rec.Path != "/1.1/lists/42/members.json" {
		t.Errorf("unexpected path %q", rec.Path)
	}
	if rec.OAuthError != nil {
		t.Errorf("signature rejected: %v", rec.OAuthError)
	}

	_, err = a.Do(context.Background(), http.MethodGet, "/lists/{list-id}/members.json", request.Options{
		Handlers: &httpclient.Handlers{OnSuccess: bodyString},
	})
	if !errors.IsCode(err, errors.ErrCodeMissingParam) {
		t.Errorf("expected MISSING_PARAM, got %v", err)
	}
}

func TestAPI_URITemplateEscapesValues(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireOAuth(creds)
	a := newAPI(t, srv)

	_, err := a.Do(context.Background(), http.MethodGet, "/accounts/{id}", request.Options{
		Params:   map[string]any{"id": "a#b?admin=1"},
		Handlers: &httpclient.Handlers{OnSuccess: bodyString},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	rec, _ := srv.Last()
	if rec.Path != "/1.1/accounts/a#b?admin=1" {
		t.Errorf("expected path /1.1/accounts/a#b?admin=1, got %q", rec.Path)
	}
	if rec.Query.Has("admin") {
		t.Errorf("expected no admin query param, got %v", rec.Query)
	}
	if rec.OAuthError != nil {
		t.Errorf("signature rejected: %v", rec.OAuthError)
	}
}

func TestAPI_ParamOverridesTemplateQuery(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireOAuth(creds)
	a := newAPI(t, srv)

	_, err := a.Do(context.Background(), http.MethodGet, "/search.json?a=1&b=2", request.Options{
		Params:   map[string]any{"a": "2"},
		Handlers: &httpclient.Handlers{OnSuccess: bodyString},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	rec, _ := srv.Last()
	if got := rec.Query["a"]; len(got) != 1 || got[0] != "2" {
		t.Errorf("expected a=[2], got %v", got)
	}
	if rec.Query.Get("b") != "2" {
		t.Errorf("expected b=2, got %v", rec.Query)
	}
	if rec.OAuthError != nil {
		t.Errorf("signature rejected: %v", rec.OAuthError)
	}
}

func TestAPI_RequestAsync(t *testing.T) {
	srv := apitest.NewServer(t)
	a := newAPI(t, srv)

	done := make(chan any, 1)
	result, err := a.Request(context.Background(), http.MethodGet, "/ping", request.Options{
		Mode: request.Async,
		Handlers: &httpclient.Handlers{OnSuccess: func(r *httpclient.Response) any {
			done <- r.StatusCode
			return nil
		}},
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	call, ok := result.(*httpclient.Call)
	if !ok {
		t.Fatalf("expected *httpclient.Call, got %T", result)
	}
	if state := call.Wait(); state != httpclient.StateCompleted {
		t.Errorf("expected completed, got %s", state)
	}
	if got := <-done; got != http.StatusOK {
		t.Errorf("expected 200, got %v", got)
	}
}

func TestAPI_GoAndDoForceMode(t *testing.T) {
	srv := apitest.NewServer(t)
	a := newAPI(t, srv)
	h := &httpclient.Handlers{OnSuccess: bodyString}

	call, err := a.Go(context.Background(), http.MethodGet, "/ping", request.Options{Handlers: h})
	if err != nil {
		t.Fatalf("Go: %v", err)
	}
	call.Wait()

	result, err := a.Do(context.Background(), http.MethodGet, "/ping", request.Options{Handlers: h, Mode: request.Async})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if _, ok := result.(string); !ok {
		t.Errorf("Do must block and return the handler result, got %T", result)
	}
}

func TestAPI_PerCallClientOverride(t *testing.T) {
	srv := apitest.NewServer(t)
	a, err := New(nil, nil, WithBaseURL(srv.URL()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := &httpclient.Handlers{OnSuccess: bodyString}
	if _, err := a.Do(context.Background(), http.MethodGet, "/x", request.Options{Handlers: h}); !errors.IsCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR without client, got %v", err)
	}

	client, err := httpclient.New(httpclient.Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	if _, err := a.Do(context.Background(), http.MethodGet, "/x", request.Options{Handlers: h, Client: client}); err != nil {
		t.Errorf("expected per-call client to be used: %v", err)
	}
}

func TestAPI_PerCallCredentialsOverride(t *testing.T) {
	other := &oauth1.Credentials{ConsumerKey: "other", ConsumerSecret: "secret"}
	srv := apitest.NewServer(t)
	srv.RequireOAuth(other)
	a := newAPI(t, srv)

	result, err := a.Do(context.Background(), http.MethodGet, "/me", request.Options{
		Credentials: other,
		Handlers: &httpclient.Handlers{
			OnSuccess: func(r *httpclient.Response) any { return r.StatusCode },
			OnFailure: func(f *httpclient.Failure) any { return f.Response.StatusCode },
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result != http.StatusOK {
		t.Errorf("expected per-call credentials to sign, got status %v", result)
	}
}

func TestAPI_WrongCredentialsRouteToFailure(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.RequireOAuth(&oauth1.Credentials{ConsumerKey: creds.ConsumerKey, ConsumerSecret: "different"})
	a := newAPI(t, srv)

	result, err := a.Do(context.Background(), http.MethodGet, "/me", request.Options{
		Handlers: &httpclient.Handlers{OnFailure: func(f *httpclient.Failure) any { return f.Err.Code }},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result != httpclient.ErrCodeAuth {
		t.Errorf("expected auth failure, got %v", result)
	}
}

func TestNew_InvalidDefaultCredentials(t *testing.T) {
	_, err := New(nil, nil, WithCredentials(&oauth1.Credentials{ConsumerKey: "only-key"}))
	if !errors.IsCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	a := &API{baseURL: "https://api.example.com/1.1"}
	tests := map[string]string{
		"users/show.json":      "https://api.example.com/1.1/users/show.json",
		"/users/show.json":     "https://api.example.com/1.1/users/show.json",
		"https://other.test/x": "https://other.test/x",
	}
	for in, want := range tests {
		if got := a.resolve(in); got != want {
			t.Errorf("resolve(%q) = %q, want %q", in, got, want)
		}
	}
}
