package ports

import (
	"context"
	"net/url"

	"github.com/medicare/portal/internal/core/domain"
)

// Request is a single call to a backend service.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Gateway sends requests to backend services on behalf of a portal session.
// sessionID may be empty for anonymous calls. out, when non-nil, receives
// the decoded JSON response.
type Gateway interface {
	Do(ctx context.Context, backend domain.Backend, sessionID string, req Request, out any) error
}
