// Package gateway holds one HTTP client per backend service. Each client
// attaches the session's bearer credential and ends the session when a
// backend rejects it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/api/metrics"
	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const maxResponseBody = 4 << 20

// CredentialSource is the part of the session store the gateway relies on.
type CredentialSource interface {
	Credential(ctx context.Context, sessionID string) (domain.Credential, error)
	ForceLogout(ctx context.Context, sessionID string) (bool, error)
}

// Client talks to a single backend service. Its base URL is fixed at
// construction.
type Client struct {
	service domain.Backend
	base    *url.URL
	http    *http.Client
	creds   CredentialSource
	log     zerolog.Logger
}

// NewClient validates baseURL and returns a client for service.
func NewClient(service domain.Backend, baseURL string, httpClient *http.Client, creds CredentialSource, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s base url: %w", service, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: %s base url %q must be absolute", service, baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		service: service,
		base:    u,
		http:    httpClient,
		creds:   creds,
		log:     log.With().Str("service", string(service)).Logger(),
	}, nil
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string { return c.base.String() }

// Do sends req and decodes a JSON answer into out. Any 401 ends the session
// before the error is returned.
func (c *Client) Do(ctx context.Context, sessionID string, req ports.Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.service, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.resolve(req.Path, req.Query), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if sessionID != "" && c.creds != nil {
		cred, err := c.creds.Credential(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("%s: read credential: %w", c.service, err)
		}
		if cred.Present() {
			httpReq.Header.Set("Authorization", "Bearer "+cred.Token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.GatewayRequestDuration.WithLabelValues(string(c.service)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(string(c.service), "error").Inc()
		return fmt.Errorf("%s %s %s: %w: %w", c.service, method, req.Path, domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.GatewayRequestsTotal.WithLabelValues(string(c.service), strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%s: read response: %w: %w", c.service, domain.ErrServiceUnavailable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.intercept(ctx, sessionID)
		return newError(c.service, resp.StatusCode, data)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(c.service, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %w", c.service, domain.ErrUpstream, err)
	}
	return nil
}

// intercept ends the session behind a rejected credential. The logout must
// complete even when the triggering request is cancelled.
func (c *Client) intercept(ctx context.Context, sessionID string) {
	if sessionID == "" || c.creds == nil {
		return
	}
	won, err := c.creds.ForceLogout(context.WithoutCancel(ctx), sessionID)
	if err != nil {
		c.log.Error().Err(err).Str("session_id", sessionID).Msg("forced logout failed")
		return
	}
	if won {
		c.log.Info().Str("session_id", sessionID).Msg("credential rejected, session ended")
	}
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
