package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/api/middleware"
	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/infrastructure/gateway"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string              `json:"error"`
	Kind   domain.ErrorKind    `json:"kind,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type fieldErrors interface {
	FieldErrors() map[string][]string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends the browser back to /login, clearing the cookie, when the session
//     is gone or its credential was rejected upstream.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, cookie middleware.Cookie) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if requiresLogin(err) {
			cookie.Clear(c)
			_ = middleware.Redirect(c, domain.PathLogin, "session expired, please log in again")
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func requiresLogin(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrInvalidSession) ||
		errors.Is(err, domain.ErrUnauthorized)
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (404 from router, 405, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Portal-local errors carry the text shown to the user.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: userMessage(err, domain.ErrInvalidCredentials.Error())}
	case errors.Is(err, domain.ErrForbiddenRole):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrWizardClosed):
		return http.StatusConflict, errorResponse{Error: domain.ErrWizardClosed.Error()}
	case errors.Is(err, domain.ErrDateUnavailable):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrDateUnavailable.Error(), Kind: domain.KindValidation}
	case errors.Is(err, domain.ErrSlotUnavailable):
		return http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrSlotUnavailable.Error(), Kind: domain.KindValidation}
	}
	for _, local := range []error{
		domain.ErrUnknownOption,
		domain.ErrInvalidRole,
		domain.ErrIncompleteBooking,
		domain.ErrMissingParameters,
		domain.ErrMissingValues,
		domain.ErrEmptyMessage,
	} {
		if errors.Is(err, local) {
			return http.StatusBadRequest, errorResponse{Error: userMessage(err, local.Error()), Kind: domain.KindValidation}
		}
	}

	// Upstream taxonomy.
	kind := domain.Classify(err)
	switch kind {
	case domain.KindUnavailable:
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		return http.StatusServiceUnavailable, errorResponse{
			Error: "service unavailable, please try again later",
			Kind:  kind,
		}
	case domain.KindConflict:
		return http.StatusConflict, errorResponse{Error: userMessage(err, "conflict"), Kind: kind}
	case domain.KindValidation:
		code := http.StatusBadRequest
		var ge *gateway.Error
		if errors.As(err, &ge) && ge.Status == http.StatusUnprocessableEntity {
			code = http.StatusUnprocessableEntity
		}
		resp := errorResponse{Error: userMessage(err, err.Error()), Kind: kind}
		var fe fieldErrors
		if errors.As(err, &fe) {
			resp.Fields = fe.FieldErrors()
		}
		return code, resp
	case domain.KindNotFound:
		return http.StatusNotFound, errorResponse{Error: userMessage(err, "not found"), Kind: kind}
	case domain.KindUpstream:
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend failure")
		return http.StatusBadGateway, errorResponse{Error: "the request could not be completed, please try again", Kind: kind}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: domain.KindFailure}
}

// userMessage picks the most specific text available: a message attached
// with domain.WithMessage, then the backend's own message, then fallback.
func userMessage(err error, fallback string) string {
	var ue *domain.UserError
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	var ge *gateway.Error
	if errors.As(err, &ge) && ge.Message != "" {
		return ge.Message
	}
	return fallback
}
