package domain

import "time"

// Session is the single persisted record behind a portal cookie. It holds the
// identity together with the backend credential so both are written and
// removed as one unit.
type Session struct {
	ID            string     `json:"id"                        bson:"_id"`
	Identity      Identity   `json:"identity"                  bson:"identity"`
	Credential    Credential `json:"credential"                bson:"credential"`
	ChatSessionID string     `json:"chat_session_id,omitempty" bson:"chat_session_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"                bson:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"                bson:"expires_at"`
}

// Expired reports whether the record is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionEventKind classifies a session lifecycle change.
type SessionEventKind string

const (
	SessionLogin        SessionEventKind = "login"
	SessionLogout       SessionEventKind = "logout"
	SessionForcedLogout SessionEventKind = "forced_logout"
)

// SessionEvent is delivered to session subscribers. Identity is nil for
// logout events.
type SessionEvent struct {
	Kind      SessionEventKind
	SessionID string
	Identity  *Identity
	At        time.Time
}
