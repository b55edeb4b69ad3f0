package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/api/metrics"
	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// BookingHandler drives the patient's appointment booking dialog.
type BookingHandler struct {
	booking    ports.BookingService
	dashboards ports.DashboardService
}

func NewBookingHandler(booking ports.BookingService, dashboards ports.DashboardService) *BookingHandler {
	return &BookingHandler{booking: booking, dashboards: dashboards}
}

type stepRequest struct {
	Value string `json:"value" form:"value"`
}

type bookedResponse struct {
	Appointment *domain.Appointment `json:"appointment"`
	View        *ports.PatientView  `json:"view"`
}

// View handles GET /patient/booking.
//
// @Summary      Booking dialog state
// @Tags         booking
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  ports.BookingView
// @Failure      401  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /patient/booking [get]
func (h *BookingHandler) View(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	view, err := h.booking.View(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Step handles POST /patient/booking/:step/:action.
//
// @Summary      Apply a picker transition
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        step    path      string       true   "doctor, date or time"
// @Param        action  path      string       true   "open, select, confirm or cancel"
// @Param        body    body      stepRequest  false  "Selected value"
// @Success      200     {object}  ports.BookingView
// @Failure      400     {object}  map[string]interface{}
// @Failure      401     {object}  map[string]interface{}
// @Router       /patient/booking/{step}/{action} [post]
func (h *BookingHandler) Step(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req stepRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}

	step := ports.BookingStep(c.Param("step"))
	action := domain.WizardAction(c.Param("action"))
	view, err := h.booking.Step(c.Request().Context(), sess, step, action, req.Value)
	if err != nil {
		return err
	}
	metrics.WizardTransitionsTotal.WithLabelValues("booking_"+string(step), string(action)).Inc()
	return c.JSON(http.StatusOK, view)
}

// Submit books the appointment and returns it with the refreshed list.
//
// @Summary      Book the appointment
// @Tags         booking
// @Produce      json
// @Security     SessionCookie
// @Success      201  {object}  bookedResponse
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /patient/booking/submit [post]
func (h *BookingHandler) Submit(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	appt, err := h.booking.Submit(ctx, sess)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrConflict) {
			result = "conflict"
		}
		metrics.BookingsTotal.WithLabelValues(result).Inc()
		return err
	}
	metrics.BookingsTotal.WithLabelValues("booked").Inc()

	view, err := h.dashboards.Patient(ctx, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bookedResponse{Appointment: appt, View: view})
}

// Close discards the dialog.
//
// @Summary      Close the booking dialog
// @Tags         booking
// @Security     SessionCookie
// @Success      204
// @Failure      401  {object}  map[string]interface{}
// @Router       /patient/booking [delete]
func (h *BookingHandler) Close(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.booking.Close(c.Request().Context(), sess); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
