package httpclient

import (
	"net/http"

	"github.com/kbukum/oauthrest/validation"
)

const (
	defaultCookiePath   = "/"
	defaultCookieMaxAge = 30
)

// Cookie is an outgoing cookie record. Path defaults to "/", an omitted
// (nil) MaxAge to 30 and Secure to false. Use MaxAge(0) to send zero.
type Cookie struct {
	Domain string `yaml:"domain" mapstructure:"domain" validate:"required"`
	Name   string `yaml:"name" mapstructure:"name" validate:"required,cookiename"`
	Value  string `yaml:"value" mapstructure:"value"`
	Path   string `yaml:"path" mapstructure:"path"`
	MaxAge *int   `yaml:"max_age" mapstructure:"max_age" validate:"omitempty,min=0"`
	Secure bool   `yaml:"secure" mapstructure:"secure"`
}

// WithDefaults returns a copy with omitted fields filled in.
func (c Cookie) WithDefaults() Cookie {
	if c.Path == "" {
		c.Path = defaultCookiePath
	}
	if c.MaxAge == nil {
		c.MaxAge = MaxAge(defaultCookieMaxAge)
	}
	return c
}

// MaxAge returns a Cookie.MaxAge value of seconds.
func MaxAge(seconds int) *int {
	return &seconds
}

// Validate checks the required fields.
func (c Cookie) Validate() error {
	return validation.Validate(c)
}

func (c Cookie) toHTTP() *http.Cookie {
	c = c.WithDefaults()
	return &http.Cookie{
		Domain: c.Domain,
		Name:   c.Name,
		Value:  c.Value,
		Path:   c.Path,
		MaxAge: *c.MaxAge,
		Secure: c.Secure,
	}
}
