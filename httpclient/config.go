package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/oauthrest/version"
)

const (
	defaultTimeout = 30 * time.Second
	defaultName    = "http"
)

// Config configures the shared client.
type Config struct {
	// Name identifies the client in logs and component summaries.
	Name string `yaml:"name" mapstructure:"name"`

	// Timeout is the default per-call deadline, used when a Request does
	// not carry its own. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent when a request sets none.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are default headers; request headers take precedence.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures TLS settings for the transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Proxy is the default proxy. Nil falls back to HTTP_PROXY/HTTPS_PROXY/NO_PROXY.
	Proxy *Proxy `yaml:"proxy" mapstructure:"proxy"`

	// MaxInFlight caps concurrently running async calls. Zero means no cap.
	MaxInFlight int `yaml:"max_in_flight" mapstructure:"max_in_flight"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("httpclient: max_in_flight must not be negative")
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	if c.Proxy != nil {
		if err := c.Proxy.Validate(); err != nil {
			return fmt.Errorf("httpclient: proxy: %w", err)
		}
	}
	return nil
}
