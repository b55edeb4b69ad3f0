package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
	"github.com/medicare/portal/internal/core/service"
)

type DashboardHandler struct {
	dashboards ports.DashboardService
	router     *service.RoleRouter
}

func NewDashboardHandler(dashboards ports.DashboardService, router *service.RoleRouter) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, router: router}
}

// dashboardResponse wraps every view with the header every dashboard shows.
type dashboardResponse struct {
	Title string          `json:"title"`
	User  domain.Identity `json:"user"`
	View  any             `json:"view"`
}

// render loads a view and wraps it. The view is only returned once every
// fetch behind it has finished; a failure replaces the whole view.
func render[V any](c echo.Context, router *service.RoleRouter, load func(ctx context.Context, sess *domain.Session) (V, error)) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	view, err := load(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	route, _ := router.Dashboard(sess.Identity.Role)
	return c.JSON(http.StatusOK, dashboardResponse{Title: route.Title, User: sess.Identity, View: view})
}

// Patient handles GET /patient.
//
// @Summary      Patient dashboard
// @Tags         dashboards
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /patient [get]
func (h *DashboardHandler) Patient(c echo.Context) error {
	return render(c, h.router, h.dashboards.Patient)
}

// Doctor handles GET /doctor.
//
// @Summary      Doctor dashboard
// @Tags         dashboards
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /doctor [get]
func (h *DashboardHandler) Doctor(c echo.Context) error {
	return render(c, h.router, h.dashboards.Doctor)
}

// Pharmacist handles GET /pharmacist.
//
// @Summary      Pharmacist dashboard
// @Tags         dashboards
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /pharmacist [get]
func (h *DashboardHandler) Pharmacist(c echo.Context) error {
	return render(c, h.router, h.dashboards.Pharmacist)
}

// Nurse handles GET /nurse.
//
// @Summary      Nurse dashboard
// @Tags         dashboards
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /nurse [get]
func (h *DashboardHandler) Nurse(c echo.Context) error {
	return render(c, h.router, h.dashboards.Nurse)
}

// LabTech handles GET /labtech.
//
// @Summary      Lab technician dashboard
// @Tags         dashboards
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /labtech [get]
func (h *DashboardHandler) LabTech(c echo.Context) error {
	return render(c, h.router, h.dashboards.LabTech)
}

// Admin handles GET /admin.
//
// @Summary      Administrator dashboard
// @Tags         dashboards
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	return render(c, h.router, h.dashboards.Admin)
}

// OwnMedicalHistory serves GET /patient/medical-history.
//
// @Summary      Own medical history
// @Tags         records
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  domain.MedicalHistory
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /patient/medical-history [get]
func (h *DashboardHandler) OwnMedicalHistory(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	history, err := h.dashboards.MedicalHistory(c.Request().Context(), sess, sess.Identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

// MedicalHistory serves GET /patients/:id/medical-history.
//
// @Summary      Medical history of a patient
// @Tags         records
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Patient user id"
// @Success      200  {object}  domain.MedicalHistory
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /patients/{id}/medical-history [get]
func (h *DashboardHandler) MedicalHistory(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	history, err := h.dashboards.MedicalHistory(c.Request().Context(), sess, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

// Templates lists the lab test templates.
//
// @Summary      Lab test templates
// @Tags         lab
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   domain.TestTemplate
// @Failure      401  {object}  map[string]interface{}
// @Router       /labtech/templates [get]
func (h *DashboardHandler) Templates(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.TestTemplates)
}
