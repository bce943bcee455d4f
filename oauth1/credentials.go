package oauth1

import "github.com/kbukum/oauthrest/validation"

// Credentials holds the consumer and (optional) access token pair used to
// sign a request. Token and TokenSecret may be empty for two-legged calls.
type Credentials struct {
	ConsumerKey    string `yaml:"consumer_key" mapstructure:"consumer_key" validate:"required"`
	ConsumerSecret string `yaml:"consumer_secret" mapstructure:"consumer_secret" validate:"required"`
	Token          string `yaml:"token" mapstructure:"token"`
	TokenSecret    string `yaml:"token_secret" mapstructure:"token_secret"`
}

// Validate checks that the consumer pair is present.
func (c *Credentials) Validate() error {
	return validation.Validate(c)
}

// IsZero reports whether no credential field is set.
func (c *Credentials) IsZero() bool {
	return c == nil || *c == Credentials{}
}
