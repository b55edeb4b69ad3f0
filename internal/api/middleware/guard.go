package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/service"
)

// redirectResponse is returned instead of a 302 when the request cannot
// follow a redirect.
type redirectResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Redirect sends the browser to target. GET and HEAD navigations get a 302;
// any other method gets 401 with the target in the body and in Location.
func Redirect(c echo.Context, target, reason string) error {
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead:
		return c.Redirect(http.StatusFound, target)
	}
	c.Response().Header().Set(echo.HeaderLocation, target)
	return c.JSON(http.StatusUnauthorized, redirectResponse{Error: reason, Redirect: target})
}

// NavigationGuard applies the role routing rules before a page is served.
func NavigationGuard(router *service.RoleRouter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := router.Resolve(IdentityFrom(c), c.Request().URL.Path)
			if !d.Allow {
				return Redirect(c, d.Redirect, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireRole is the mount guard of a dashboard: the loaded identity must
// hold one of roles, otherwise the visitor is sent to the login view.
func RequireRole(router *service.RoleRouter, roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !router.Permits(IdentityFrom(c), roles...) {
				return Redirect(c, domain.PathLogin, "access forbidden")
			}
			return next(c)
		}
	}
}
