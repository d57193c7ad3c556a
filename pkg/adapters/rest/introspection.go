package rest

import (
	"github.com/aretw0/introspection"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	Endpoint   string `json:"endpoint"`
	Requests   int    `json:"requests"`
	Failures   int    `json:"failures"`
	LastStatus int    `json:"last_status,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ClientState{
		Endpoint:   c.endpoint,
		Requests:   c.requests,
		Failures:   c.failures,
		LastStatus: c.lastStatus,
		LastError:  c.lastError,
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "rest-remote"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
