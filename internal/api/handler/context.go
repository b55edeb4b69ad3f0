package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/api/middleware"
	"github.com/medicare/portal/internal/core/domain"
)

// ctxSession returns the session resolved by the Session middleware and
// fails fast before any service call when there is none.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// bindAndValidate decodes the request body into req and runs its validate
// tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	return c.Validate(req)
}
