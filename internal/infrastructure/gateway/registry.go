package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Registry dispatches requests to the client of each backend domain.
type Registry struct {
	clients map[domain.Backend]*Client
}

var _ ports.Gateway = (*Registry)(nil)

// NewRegistry builds one client per entry of urls. All clients share an
// http.Client with the given per-request timeout.
func NewRegistry(urls map[domain.Backend]string, timeout time.Duration, creds CredentialSource, log zerolog.Logger) (*Registry, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	r := &Registry{clients: make(map[domain.Backend]*Client, len(urls))}
	for service, base := range urls {
		c, err := NewClient(service, base, httpClient, creds, log)
		if err != nil {
			return nil, err
		}
		r.clients[service] = c
	}
	return r, nil
}

// Client returns the client for service.
func (r *Registry) Client(service domain.Backend) (*Client, bool) {
	c, ok := r.clients[service]
	return c, ok
}

// Do implements ports.Gateway.
func (r *Registry) Do(ctx context.Context, service domain.Backend, sessionID string, req ports.Request, out any) error {
	c, ok := r.clients[service]
	if !ok {
		return fmt.Errorf("gateway: no client configured for %q", service)
	}
	return c.Do(ctx, sessionID, req, out)
}
