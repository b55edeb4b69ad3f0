package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// SessionTokens signs the portal cookie as an HS256 JWT carrying only the
// session id. Identity and credential never leave the server.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.SessionTokens = (*SessionTokens)(nil)

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *SessionTokens) Issue(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session token: empty session id")
	}
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": t.now().Unix(),
		"exp": t.now().Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse returns the session id of a valid token, or domain.ErrInvalidSession.
func (t *SessionTokens) Parse(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidSession
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrInvalidSession
	}
	return sid, nil
}
