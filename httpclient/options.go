package httpclient

import (
	"net/http"

	"github.com/kbukum/oauthrest/logger"
	"github.com/kbukum/oauthrest/observability"
	"github.com/kbukum/oauthrest/ratelimit"
)

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithLimiter throttles calls before submission.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithMetrics records call metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTransport replaces the default transport. Per-request proxies are
// only honoured when rt is an *http.Transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}
