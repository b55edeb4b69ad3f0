package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/api/metrics"
	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// AdminHandler serves user management for administrators.
type AdminHandler struct {
	admin      ports.AdminService
	dashboards ports.DashboardService
}

func NewAdminHandler(admin ports.AdminService, dashboards ports.DashboardService) *AdminHandler {
	return &AdminHandler{admin: admin, dashboards: dashboards}
}

type userTypeStepRequest struct {
	Context domain.UserTypeContext `json:"context" form:"context"`
	Value   string                 `json:"value"   form:"value"`
}

type userTypeResponse struct {
	Draft   *domain.UserTypeDraft    `json:"draft"`
	Options []domain.UserTypeOption `json:"options"`
}

// CreateUser handles POST /admin/users.
//
// @Summary      Create a user and its profile
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      ports.CreateUserInput  true  "New user"
// @Success      201   {object}  ports.CreateUserResult
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req ports.CreateUserInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.admin.CreateUser(c.Request().Context(), sess, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result)
}

// GetUser handles GET /admin/users/{id}.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.UserAccount
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	user, err := h.admin.GetUser(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser handles PATCH /admin/users/{id}.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      string             true  "User id"
// @Param        body  body      domain.UserUpdate  true  "Changed fields"
// @Success      200   {object}  domain.UserAccount
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      404   {object}  map[string]interface{}
// @Failure      409   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req domain.UserUpdate
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.admin.UpdateUser(c.Request().Context(), sess, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user and returns the refreshed user list.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  ports.AdminView
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.admin.DeleteUser(ctx, sess, c.Param("id")); err != nil {
		return err
	}
	view, err := h.dashboards.Admin(ctx, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// UserTypeDraft handles GET /admin/user-type.
//
// @Summary      User type picker state
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  userTypeResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /admin/user-type [get]
func (h *AdminHandler) UserTypeDraft(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	d, err := h.admin.UserTypeDraft(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userTypeResponse{Draft: d, Options: domain.UserTypeOptions})
}

// UserTypeStep handles POST /admin/user-type/:action.
//
// @Summary      Apply a user type picker transition
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        action  path      string               true  "open, select, confirm or cancel"
// @Param        body    body      userTypeStepRequest  true  "Context or selected type"
// @Success      200     {object}  userTypeResponse
// @Failure      400     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]interface{}
// @Router       /admin/user-type/{action} [post]
func (h *AdminHandler) UserTypeStep(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req userTypeStepRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	action := domain.WizardAction(c.Param("action"))
	d, err := h.admin.UserTypeStep(c.Request().Context(), sess, action, req.Context, req.Value)
	if err != nil {
		return err
	}
	metrics.WizardTransitionsTotal.WithLabelValues("user_type", string(action)).Inc()
	return c.JSON(http.StatusOK, userTypeResponse{Draft: d, Options: domain.UserTypeOptions})
}
