package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const draftCleanupTimeout = 5 * time.Second

// DraftCleanup discards every wizard draft of a session once it ends.
func DraftCleanup(drafts ports.DraftRepository, log zerolog.Logger) ports.SessionListener {
	return func(e domain.SessionEvent) {
		if e.Kind == domain.SessionLogin {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), draftCleanupTimeout)
		defer cancel()
		if err := drafts.DeleteAll(ctx, e.SessionID); err != nil {
			log.Warn().Err(err).Str("session_id", e.SessionID).Msg("failed to discard drafts of ended session")
		}
	}
}

// AuditLog writes one line per session lifecycle event.
func AuditLog(log zerolog.Logger) ports.SessionListener {
	return func(e domain.SessionEvent) {
		evt := log.Info().
			Str("event", string(e.Kind)).
			Str("session_id", e.SessionID).
			Time("at", e.At)
		if e.Identity != nil {
			evt = evt.Str("user_id", e.Identity.ID).Str("role", string(e.Identity.Role))
		}
		evt.Msg("session event")
	}
}
