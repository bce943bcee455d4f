package httpclient

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/kbukum/oauthrest/errors"
	"github.com/kbukum/oauthrest/logger"
	"github.com/kbukum/oauthrest/observability"
	"github.com/kbukum/oauthrest/ratelimit"
)

// Client submits built requests and routes their outcomes. It never follows
// redirects. A Client is safe for concurrent use and its configuration does
// not change after New.
type Client struct {
	cfg       Config
	transport http.RoundTripper
	http      *http.Client
	proxied   sync.Map // proxy URL -> *http.Client

	log     *logger.Logger
	limiter ratelimit.Limiter
	metrics *observability.Metrics
	slots   chan struct{}
}

// New creates a Client. The default transport honours HTTP_PROXY,
// HTTPS_PROXY and NO_PROXY unless cfg.Proxy is set.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Configuration(err.Error()).WithCause(err)
	}

	c := &Client{cfg: cfg, log: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent(cfg.Name)

	if c.transport == nil {
		t, err := defaultTransport(cfg)
		if err != nil {
			return nil, errors.Configuration(err.Error()).WithCause(err)
		}
		c.transport = t
	}
	c.http = newHTTPClient(c.transport)

	if cfg.MaxInFlight > 0 {
		c.slots = make(chan struct{}, cfg.MaxInFlight)
	}
	return c, nil
}

func defaultTransport(cfg Config) (*http.Transport, error) {
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = tlsCfg
	if cfg.Proxy != nil {
		t.Proxy = http.ProxyURL(cfg.Proxy.URL())
	} else {
		t.Proxy = environmentProxy()
	}
	return t, nil
}

func newHTTPClient(rt http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: rt,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// clientFor returns the http.Client routing through p, creating and caching
// a proxy-specific transport on first use.
func (c *Client) clientFor(p *Proxy) *http.Client {
	if p == nil {
		return c.http
	}

	key := p.URL().String()
	if hc, ok := c.proxied.Load(key); ok {
		return hc.(*http.Client)
	}

	base, ok := c.transport.(*http.Transport)
	if !ok {
		c.log.Warn("per-request proxy ignored: custom transport", logger.Fields("proxy", p.Host))
		return c.http
	}
	t := base.Clone()
	t.Proxy = http.ProxyURL(p.URL())

	hc, _ := c.proxied.LoadOrStore(key, newHTTPClient(t))
	return hc.(*http.Client)
}

// Config returns the client configuration with defaults applied.
func (c *Client) Config() Config {
	return c.cfg
}

// Close releases idle connections of every transport the client created.
func (c *Client) Close() {
	type idleCloser interface{ CloseIdleConnections() }

	if ic, ok := c.transport.(idleCloser); ok {
		ic.CloseIdleConnections()
	}
	c.proxied.Range(func(_, v any) bool {
		v.(*http.Client).CloseIdleConnections()
		return true
	})
}

func (c *Client) describe() string {
	return fmt.Sprintf("timeout=%s max_in_flight=%d", c.cfg.Timeout, c.cfg.MaxInFlight)
}
