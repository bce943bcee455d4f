package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/oauthrest/httpclient"
	"github.com/kbukum/oauthrest/logger"
	"github.com/kbukum/oauthrest/oauth1"
	"github.com/kbukum/oauthrest/observability"
	"github.com/kbukum/oauthrest/ratelimit"
)

// AppName names the config file, the .env search and the service tag.
const AppName = "oauthrest"

// Config is the full configuration of the oauthrest command.
//
//	name: oauthrest
//	environment: production
//	logging:
//	  level: info
//	client:
//	  base_url: https://api.example.com/1.1
//	  timeout: 10s
//	  rate_limit:
//	    backend: memory
//	    rate: 5
//	oauth:
//	  consumer_key: ...
//	  consumer_secret: ...
//	tracing:
//	  enabled: false
type Config struct {
	Name        string                     `yaml:"name" mapstructure:"name"`
	Environment string                     `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	Client      ClientConfig               `yaml:"client" mapstructure:"client"`
	OAuth       oauth1.Credentials         `yaml:"oauth" mapstructure:"oauth"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
}

// ClientConfig extends the shared client settings with call-surface defaults.
type ClientConfig struct {
	httpclient.Config `yaml:",inline" mapstructure:",squash"`

	// BaseURL resolves relative URIs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// RateLimit throttles outgoing calls. Disabled when backend is empty.
	RateLimit ratelimit.Config `yaml:"rate_limit" mapstructure:"rate_limit"`
}

var environments = []string{"development", "staging", "production"}

// ApplyDefaults fills zero values in every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = AppName
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	c.Client.Config.ApplyDefaults()
	c.Client.RateLimit.ApplyDefaults()
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Tracing.Environment == "" {
		c.Tracing.Environment = c.Environment
	}
	c.Tracing.ApplyDefaults()
}

// Validate checks every section. OAuth credentials are optional, but a
// partial consumer pair is rejected.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Client.Config.Validate(); err != nil {
		return fmt.Errorf("config.client: %w", err)
	}
	if err := c.Client.RateLimit.Validate(); err != nil {
		return fmt.Errorf("config.client.rate_limit: %w", err)
	}
	if !c.OAuth.IsZero() {
		if err := c.OAuth.Validate(); err != nil {
			return fmt.Errorf("config.oauth: %w", err)
		}
	}
	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("config.tracing: %w", err)
	}
	return nil
}

// Credentials returns the configured consumer pair, or nil when none is set.
func (c *Config) Credentials() *oauth1.Credentials {
	if c.OAuth.IsZero() {
		return nil
	}
	creds := c.OAuth
	return &creds
}

// Load reads, defaults and validates the configuration.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(AppName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
