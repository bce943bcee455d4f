package httpclient

import (
	"context"
	"sync"

	"github.com/kbukum/oauthrest/component"
)

// Component provides one shared Client with lifecycle management. The
// Client is created in Start and the same instance is handed out until Stop.
type Component struct {
	config Config
	opts   []Option

	mu     sync.RWMutex
	client *Client
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a client component.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return defaultName
	}
	return c.config.Name
}

// Start creates the Client.
func (c *Component) Start(_ context.Context) error {
	cl, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.client = cl
	c.mu.Unlock()
	return nil
}

// Stop releases idle connections and drops the Client.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	return nil
}

// Health reports healthy while a Client is available.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.Client() == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe returns a one-line summary.
func (c *Component) Describe() component.Description {
	d := component.Description{Name: "HTTP client", Type: "http-client"}
	if cl := c.Client(); cl != nil {
		d.Details = cl.describe()
	}
	return d
}

// Client returns the shared Client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}
