package ports

import (
	"context"

	"github.com/medicare/portal/internal/core/domain"
)

// SessionRepository persists session records so they survive a restart and
// are shared between portal replicas.
type SessionRepository interface {
	// Save replaces the whole record. Records expire at s.ExpiresAt.
	Save(ctx context.Context, s *domain.Session) error
	// Load returns domain.ErrSessionNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (*domain.Session, error)
	// Delete reports whether this call removed the record. Concurrent
	// deletes of the same id see true at most once.
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}

// DraftRepository keeps wizard drafts keyed by session and flow name.
type DraftRepository interface {
	Save(ctx context.Context, sessionID, flow string, draft any) error
	// Load decodes the draft into dst and reports whether one existed.
	Load(ctx context.Context, sessionID, flow string, dst any) (bool, error)
	Delete(ctx context.Context, sessionID, flow string) error
	DeleteAll(ctx context.Context, sessionID string) error
}
