package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/net/http/httpproxy"

	"github.com/kbukum/oauthrest/validation"
)

// Proxy describes an outbound proxy.
type Proxy struct {
	Protocol string `yaml:"protocol" mapstructure:"protocol" validate:"omitempty,oneof=http https socks5"`
	Host     string `yaml:"host" mapstructure:"host" validate:"required"`
	Port     int    `yaml:"port" mapstructure:"port" validate:"min=0,max=65535"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
}

// Validate checks the proxy description.
func (p *Proxy) Validate() error {
	return validation.Validate(p)
}

// URL renders the proxy as a URL. Protocol defaults to http.
func (p *Proxy) URL() *url.URL {
	scheme := p.Protocol
	if scheme == "" {
		scheme = "http"
	}
	host := p.Host
	if p.Port > 0 {
		host = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	}
	u := &url.URL{Scheme: scheme, Host: host}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u
}

// environmentProxy resolves HTTP_PROXY, HTTPS_PROXY and NO_PROXY once.
func environmentProxy() func(*http.Request) (*url.URL, error) {
	resolve := httpproxy.FromEnvironment().ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return resolve(req.URL)
	}
}
