package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// AuthService exchanges username and password with the identity service and
// opens a portal session on success.
type AuthService struct {
	gateway  ports.Gateway
	sessions ports.SessionStore
	log      zerolog.Logger
}

func NewAuthService(gateway ports.Gateway, sessions ports.SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, sessions: sessions, log: log.With().Str("component", "auth").Logger()}
}

// loginResponse accepts both the flat user document and the
// {access, refresh, user} token envelope.
type loginResponse struct {
	domain.Identity
	Token   string           `json:"token"`
	Access  string           `json:"access"`
	Refresh string           `json:"refresh"`
	User    *domain.Identity `json:"user"`
}

func (r loginResponse) identity() domain.Identity {
	if r.User != nil {
		return *r.User
	}
	return r.Identity
}

func (r loginResponse) credential() domain.Credential {
	token := r.Access
	if token == "" {
		token = r.Token
	}
	return domain.Credential{Token: token, RefreshToken: r.Refresh}
}

// Login authenticates and returns the new session. previousSessionID, when
// set, is ended first so one browser never holds two sessions.
func (s *AuthService) Login(ctx context.Context, username, password, previousSessionID string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	if previousSessionID != "" {
		if _, err := s.sessions.Logout(ctx, previousSessionID); err != nil {
			s.log.Warn().Err(err).Str("session_id", previousSessionID).Msg("failed to end previous session")
		}
	}

	var resp loginResponse
	err := s.gateway.Do(ctx, domain.BackendIdentity, "", ports.Request{
		Method: http.MethodPost,
		Path:   "/login/",
		Body:   map[string]string{"username": username, "password": password},
	}, &resp)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	identity := resp.identity()
	if identity.ID == "" {
		return nil, fmt.Errorf("login: %w: identity service returned no user id", domain.ErrUpstream)
	}
	if !identity.Role.Valid() {
		s.log.Warn().Str("user_id", identity.ID).Str("role", string(identity.Role)).Msg("login with unrecognised role")
	}

	return s.sessions.Login(ctx, identity, resp.credential())
}

// Logout ends the session. Ending an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.Logout(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
