package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/api/middleware"
	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
	"github.com/medicare/portal/internal/core/service"
)

type AuthHandler struct {
	authService ports.AuthService
	tokens      ports.SessionTokens
	router      *service.RoleRouter
	cookie      middleware.Cookie
}

func NewAuthHandler(authService ports.AuthService, tokens ports.SessionTokens, router *service.RoleRouter, cookie middleware.Cookie) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, router: router, cookie: cookie}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user,omitempty"`
	Dashboard     *domain.Route    `json:"dashboard,omitempty"`
	Redirect      string           `json:"redirect,omitempty"`
}

func (h *AuthHandler) describe(identity *domain.Identity) sessionResponse {
	if identity == nil {
		return sessionResponse{}
	}
	resp := sessionResponse{Authenticated: true, User: identity, Redirect: domain.PathLogin}
	if route, ok := h.router.Dashboard(identity.Role); ok {
		resp.Dashboard = &route
		resp.Redirect = route.Path
	}
	return resp
}

// LoginPage serves the login view state. The navigation guard has already
// sent recognised users to their dashboard.
//
// @Summary      Login view state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"view": "login"})
}

// Home is only reached when the navigation guard lets "/" through, which
// it never does for a resolvable role.
//
// @Summary      Site root
// @Tags         auth
// @Success      302
// @Router       / [get]
func (h *AuthHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, domain.PathLogin)
}

// Login exchanges credentials for a portal session and sets the cookie.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Username and password"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      503   {object}  map[string]interface{}
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	previous := ""
	if sess := middleware.SessionFrom(c); sess != nil {
		previous = sess.ID
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, previous)
	if err != nil {
		return err
	}

	token, err := h.tokens.Issue(sess.ID)
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	h.cookie.Set(c, token)

	return c.JSON(http.StatusOK, h.describe(&sess.Identity))
}

// Logout ends the session and clears the cookie.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.SessionFrom(c); sess != nil {
		if err := h.authService.Logout(c.Request().Context(), sess.ID); err != nil {
			return err
		}
	}
	h.cookie.Clear(c)
	return c.JSON(http.StatusOK, sessionResponse{Redirect: domain.PathLogin})
}

// Session reports who is logged in, for the page shell.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.describe(middleware.IdentityFrom(c)))
}
