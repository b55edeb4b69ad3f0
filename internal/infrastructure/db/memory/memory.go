// Package memory provides process-local repositories for development and
// tests. Nothing is shared between replicas.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]domain.Session), now: time.Now}
}

func (r *SessionRepository) Save(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *SessionRepository) Load(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.Expired(r.now()) {
		delete(r.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

func (r *SessionRepository) Ping(context.Context) error { return nil }

type draftEntry struct {
	data      []byte
	expiresAt time.Time
}

// DraftRepository stores drafts as JSON, like the Redis implementation, so
// a draft never aliases the caller's value.
type DraftRepository struct {
	mu     sync.Mutex
	drafts map[string]draftEntry
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.DraftRepository = (*DraftRepository)(nil)

func NewDraftRepository(ttl time.Duration) *DraftRepository {
	return &DraftRepository{drafts: make(map[string]draftEntry), ttl: ttl, now: time.Now}
}

func draftKey(sessionID, flow string) string {
	return sessionID + "/" + flow
}

func (r *DraftRepository) Save(_ context.Context, sessionID, flow string, draft any) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := draftEntry{data: data}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}
	r.drafts[draftKey(sessionID, flow)] = e
	return nil
}

func (r *DraftRepository) Load(_ context.Context, sessionID, flow string, dst any) (bool, error) {
	r.mu.Lock()
	key := draftKey(sessionID, flow)
	e, ok := r.drafts[key]
	if ok && !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt) {
		delete(r.drafts, key)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dst); err != nil {
		return false, fmt.Errorf("decode draft: %w", err)
	}
	return true, nil
}

func (r *DraftRepository) Delete(_ context.Context, sessionID, flow string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, draftKey(sessionID, flow))
	return nil
}

func (r *DraftRepository) DeleteAll(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := sessionID + "/"
	for key := range r.drafts {
		if strings.HasPrefix(key, prefix) {
			delete(r.drafts, key)
		}
	}
	return nil
}
