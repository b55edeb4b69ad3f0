package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/core/ports"
)

// ClinicalHandler serves the write actions of the staff dashboards.
type ClinicalHandler struct {
	clinical   ports.ClinicalService
	dashboards ports.DashboardService
}

func NewClinicalHandler(clinical ports.ClinicalService, dashboards ports.DashboardService) *ClinicalHandler {
	return &ClinicalHandler{clinical: clinical, dashboards: dashboards}
}

// actionResponse returns what was created together with the refreshed view
// of the dashboard it was created from.
type actionResponse struct {
	Created any `json:"created,omitempty"`
	View    any `json:"view,omitempty"`
}

// CreateReport handles POST /doctor/reports.
//
// @Summary      Create a medical report
// @Tags         doctor
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      ports.ReportInput  true  "Report"
// @Success      201   {object}  actionResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /doctor/reports [post]
func (h *ClinicalHandler) CreateReport(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req ports.ReportInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	report, err := h.clinical.CreateReport(c.Request().Context(), sess, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, actionResponse{Created: report})
}

// CreatePrescription handles POST /doctor/prescriptions.
//
// @Summary      Create a prescription
// @Tags         doctor
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      ports.PrescriptionInput  true  "Prescription"
// @Success      201   {object}  actionResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /doctor/prescriptions [post]
func (h *ClinicalHandler) CreatePrescription(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req ports.PrescriptionInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rx, err := h.clinical.CreatePrescription(c.Request().Context(), sess, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, actionResponse{Created: rx})
}

// CreateLabOrder handles POST /doctor/lab-orders.
//
// @Summary      Order a lab test
// @Tags         doctor
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      ports.LabOrderInput  true  "Lab order"
// @Success      201   {object}  actionResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /doctor/lab-orders [post]
func (h *ClinicalHandler) CreateLabOrder(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req ports.LabOrderInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.clinical.CreateLabOrder(c.Request().Context(), sess, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, actionResponse{Created: order})
}

// FulfillPrescription marks a prescription fulfilled and returns the
// refreshed pharmacist view.
//
// @Summary      Fulfill a prescription
// @Tags         pharmacist
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      string  true  "Prescription id"
// @Success      200  {object}  actionResponse
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /pharmacist/prescriptions/{id}/fulfill [post]
func (h *ClinicalHandler) FulfillPrescription(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.clinical.FulfillPrescription(ctx, sess, c.Param("id")); err != nil {
		return err
	}
	view, err := h.dashboards.Pharmacist(ctx, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actionResponse{View: view})
}

// ListPatients handles GET /nurse/patients.
//
// @Summary      List patients
// @Tags         nurse
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   domain.Profile
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /nurse/patients [get]
func (h *ClinicalHandler) ListPatients(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	patients, err := h.clinical.ListPatients(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// RecordVitals handles POST /nurse/vitals.
//
// @Summary      Record vital signs
// @Tags         nurse
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      ports.VitalsInput  true  "Vital signs; unmeasured values may be null"
// @Success      201   {object}  actionResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /nurse/vitals [post]
func (h *ClinicalHandler) RecordVitals(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req ports.VitalsInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	vitals, err := h.clinical.RecordVitals(ctx, sess, req)
	if err != nil {
		return err
	}
	view, err := h.dashboards.Nurse(ctx, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, actionResponse{Created: vitals, View: view})
}

// RecordLabResult handles POST /labtech/results.
//
// @Summary      Record a lab result
// @Tags         lab
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      ports.LabResultInput  true  "Result parameters"
// @Success      201   {object}  actionResponse
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Router       /labtech/results [post]
func (h *ClinicalHandler) RecordLabResult(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req ports.LabResultInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	result, err := h.clinical.RecordLabResult(ctx, sess, req)
	if err != nil {
		return err
	}
	view, err := h.dashboards.LabTech(ctx, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, actionResponse{Created: result, View: view})
}
