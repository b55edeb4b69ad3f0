package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const defaultSessionTTL = 12 * time.Hour

// SessionStore keeps an in-memory snapshot of every session this replica has
// seen, backed by a SessionRepository. Writes replace whole records under the
// lock, so a reader never observes a half-written credential.
type SessionStore struct {
	mu     sync.RWMutex
	cache  map[string]domain.Session
	repo   ports.SessionRepository
	notify ports.SessionNotifier
	ttl    time.Duration
	log    zerolog.Logger

	now   func() time.Time
	newID func() string
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(repo ports.SessionRepository, notify ports.SessionNotifier, ttl time.Duration, log zerolog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{
		cache:  make(map[string]domain.Session),
		repo:   repo,
		notify: notify,
		ttl:    ttl,
		log:    log.With().Str("component", "session_store").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// Login stores a new session for identity and announces it.
func (s *SessionStore) Login(ctx context.Context, identity domain.Identity, cred domain.Credential) (*domain.Session, error) {
	now := s.now()
	sess := domain.Session{
		ID:         s.newID(),
		Identity:   identity,
		Credential: cred,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	s.mu.Lock()
	if err := s.repo.Save(ctx, &sess); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.cache[sess.ID] = sess
	s.mu.Unlock()

	ident := identity
	s.publish(domain.SessionEvent{Kind: domain.SessionLogin, SessionID: sess.ID, Identity: &ident, At: now})
	s.log.Info().Str("session_id", sess.ID).Str("role", string(identity.Role)).Msg("session started")

	out := sess
	return &out, nil
}

// Logout ends a session at the user's request.
func (s *SessionStore) Logout(ctx context.Context, sessionID string) (bool, error) {
	return s.end(ctx, sessionID, domain.SessionLogout)
}

// ForceLogout ends a session after its credential was rejected. The
// repository's delete decides the single winner, also across replicas.
func (s *SessionStore) ForceLogout(ctx context.Context, sessionID string) (bool, error) {
	return s.end(ctx, sessionID, domain.SessionForcedLogout)
}

func (s *SessionStore) end(ctx context.Context, sessionID string, kind domain.SessionEventKind) (bool, error) {
	if sessionID == "" {
		return false, nil
	}

	s.mu.Lock()
	delete(s.cache, sessionID)
	removed, err := s.repo.Delete(ctx, sessionID)
	s.mu.Unlock()

	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	if !removed {
		return false, nil
	}

	s.publish(domain.SessionEvent{Kind: kind, SessionID: sessionID, At: s.now()})
	s.log.Info().Str("session_id", sessionID).Str("reason", string(kind)).Msg("session ended")
	return true, nil
}

// Current returns a copy of the session. A cache miss loads the persisted
// record as-is; the credential is not re-validated against the backend.
func (s *SessionStore) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}

	s.mu.RLock()
	sess, ok := s.cache[sessionID]
	s.mu.RUnlock()

	if !ok {
		loaded, err := s.repo.Load(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("load session: %w", err)
		}
		sess = *loaded

		s.mu.Lock()
		if _, raced := s.cache[sessionID]; !raced {
			s.cache[sessionID] = sess
		}
		s.mu.Unlock()
	}

	if sess.Expired(s.now()) {
		if _, err := s.end(ctx, sessionID, domain.SessionLogout); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to drop expired session")
		}
		return nil, domain.ErrSessionNotFound
	}

	out := sess
	return &out, nil
}

// Credential returns the bearer credential of the session, or an empty one
// when the session does not exist.
func (s *SessionStore) Credential(ctx context.Context, sessionID string) (domain.Credential, error) {
	sess, err := s.Current(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Credential{}, nil
		}
		return domain.Credential{}, err
	}
	return sess.Credential, nil
}

// SetChatSession remembers the assistant conversation of the session.
func (s *SessionStore) SetChatSession(ctx context.Context, sessionID, chatSessionID string) error {
	sess, err := s.Current(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.ChatSessionID == chatSessionID {
		return nil
	}
	sess.ChatSessionID = chatSessionID

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[sessionID]; !ok {
		// ended while we were reading
		return domain.ErrSessionNotFound
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.cache[sessionID] = *sess
	return nil
}

// Subscribe registers a listener for session events.
func (s *SessionStore) Subscribe(l ports.SessionListener) func() {
	if s.notify == nil {
		return func() {}
	}
	return s.notify.Subscribe(l)
}

func (s *SessionStore) publish(e domain.SessionEvent) {
	if s.notify != nil {
		s.notify.Publish(e)
	}
}
