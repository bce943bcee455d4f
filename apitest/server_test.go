package apitest

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/oauthrest/oauth1"
)

func TestServer_RecordsRequests(t *testing.T) {
	srv := NewServer(t)
	srv.Handle(http.MethodPost, "/items", func(c *gin.Context) {
		c.String(http.StatusCreated, c.PostForm("name"))
	})

	form := url.Values{"name": {"widget"}}
	resp, err := http.Post(srv.URL()+"/items?x=1", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}

	rec, ok := srv.Last()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if rec.Method != http.MethodPost || rec.Path != "/items" || rec.Query.Get("x") != "1" {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.Form.Get("name") != "widget" {
		t.Errorf("expected parsed form, got %v", rec.Form)
	}
	if len(srv.Requests()) != 1 {
		t.Errorf("expected 1 request, got %d", len(srv.Requests()))
	}
}

func TestServer_EchoFallback(t *testing.T) {
	srv := NewServer(t)
	resp, err := http.Get(srv.URL() + "/anything")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 echo, got %d", resp.StatusCode)
	}
}

func TestServer_RequireOAuth(t *testing.T) {
	creds := &oauth1.Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"}
	srv := NewServer(t)
	srv.RequireOAuth(creds)

	resp, err := http.Get(srv.URL() + "/unsigned")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unsigned request, got %d", resp.StatusCode)
	}

	signer := &oauth1.HMACSigner{Now: time.Now, Nonce: func() string { return "abc" }}
	target := srv.URL() + "/signed"
	signed, err := signer.Sign(creds, http.MethodGet, target, map[string]any{"q": "go lang"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, target+"?q=go+lang", nil)
	req.Header.Set(oauth1.HeaderAuthorization, oauth1.AuthorizationHeader(signed))

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		rec, _ := srv.Last()
		t.Errorf("expected signed request to pass, got %d (%v)", resp.StatusCode, rec.OAuthError)
	}
}
