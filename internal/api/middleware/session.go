package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// Context keys set by Session.
const (
	ContextSessionID = "session_id"
	ContextSession   = "session"
)

// Cookie describes the portal session cookie.
type Cookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Set writes the signed session token.
func (ck Cookie) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     ck.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ck.TTL.Seconds()),
		HttpOnly: true,
		Secure:   ck.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie in the browser.
func (ck Cookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     ck.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ck.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolves the session cookie into the current session and stores it
// in the context. Requests without a valid session continue anonymously; a
// stale or forged cookie is cleared on the way.
func Session(cookie Cookie, tokens ports.SessionTokens, store ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := c.Cookie(cookie.Name)
			if err != nil || raw.Value == "" {
				return next(c)
			}

			sid, err := tokens.Parse(raw.Value)
			if err != nil {
				cookie.Clear(c)
				return next(c)
			}

			sess, err := store.Current(c.Request().Context(), sid)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					cookie.Clear(c)
					return next(c)
				}
				return fmt.Errorf("%w: session backend: %w", domain.ErrServiceUnavailable, err)
			}

			c.Set(ContextSessionID, sid)
			c.Set(ContextSession, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session resolved by Session, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(ContextSession).(*domain.Session)
	return sess
}

// IdentityFrom returns the identity of the current session, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	if sess := SessionFrom(c); sess != nil {
		return &sess.Identity
	}
	return nil
}
