package ports

import (
	"context"

	"github.com/medicare/portal/internal/core/domain"
)

// SessionListener receives session lifecycle events.
type SessionListener func(domain.SessionEvent)

// SessionNotifier fans session events out to listeners.
type SessionNotifier interface {
	Publish(event domain.SessionEvent)
	// Subscribe registers l and returns a function that removes it.
	Subscribe(l SessionListener) func()
}

// SessionStore owns the authenticated identity and its credential.
type SessionStore interface {
	Login(ctx context.Context, identity domain.Identity, cred domain.Credential) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) (bool, error)
	// ForceLogout ends a session whose credential was rejected upstream.
	// Exactly one of any number of concurrent callers gets true.
	ForceLogout(ctx context.Context, sessionID string) (bool, error)
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
	Credential(ctx context.Context, sessionID string) (domain.Credential, error)
	SetChatSession(ctx context.Context, sessionID, chatSessionID string) error
	Subscribe(l SessionListener) func()
}

// SessionTokens signs and verifies the portal session cookie.
type SessionTokens interface {
	Issue(sessionID string) (string, error)
	Parse(token string) (string, error)
}
