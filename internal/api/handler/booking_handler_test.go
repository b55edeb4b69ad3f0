package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

// ---- stub ----

type stubBookingService struct {
	stepFn   func(step ports.BookingStep, action domain.WizardAction, value string) (*ports.BookingView, error)
	submitFn func() (*domain.Appointment, error)
	closed   int
}

func (s *stubBookingService) View(context.Context, *domain.Session) (*ports.BookingView, error) {
	return &ports.BookingView{Draft: domain.NewBookingDraft()}, nil
}

func (s *stubBookingService) Step(_ context.Context, _ *domain.Session, step ports.BookingStep, action domain.WizardAction, value string) (*ports.BookingView, error) {
	return s.stepFn(step, action, value)
}

func (s *stubBookingService) Submit(context.Context, *domain.Session) (*domain.Appointment, error) {
	return s.submitFn()
}

func (s *stubBookingService) Close(context.Context, *domain.Session) error {
	s.closed++
	return nil
}

type stubPatientDashboard struct {
	ports.DashboardService
	calls int
}

func (s *stubPatientDashboard) Patient(context.Context, *domain.Session) (*ports.PatientView, error) {
	s.calls++
	return &ports.PatientView{Appointments: []domain.Appointment{{ID: "a-1"}}}, nil
}

func patientSession() *domain.Session {
	return &domain.Session{ID: "sid-p", Identity: domain.Identity{ID: "p-1", Role: domain.RolePatient}}
}

// ---- tests ----

func TestBookingHandler_Step(t *testing.T) {
	stub := &stubBookingService{stepFn: func(step ports.BookingStep, action domain.WizardAction, value string) (*ports.BookingView, error) {
		if step != ports.StepDate || action != domain.ActionSelect || value != "2026-03-02" {
			t.Fatalf("unexpected args: %s %s %q", step, action, value)
		}
		return &ports.BookingView{Draft: domain.NewBookingDraft(), MinDate: "2026-03-02"}, nil
	}}
	h := NewBookingHandler(stub, &stubPatientDashboard{})

	c, rec := newContext(newEcho(), http.MethodPost, "/patient/booking/date/select", `{"value":"2026-03-02"}`, patientSession())
	c.SetParamNames("step", "action")
	c.SetParamValues("date", "select")

	if err := h.Step(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view ports.BookingView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil || view.MinDate != "2026-03-02" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestBookingHandler_StepErrors(t *testing.T) {
	stub := &stubBookingService{stepFn: func(ports.BookingStep, domain.WizardAction, string) (*ports.BookingView, error) {
		return nil, domain.ErrWizardClosed
	}}
	h := NewBookingHandler(stub, &stubPatientDashboard{})

	c, _ := newContext(newEcho(), http.MethodPost, "/patient/booking/doctor/select", `{"value":"d-1"}`, patientSession())
	c.SetParamNames("step", "action")
	c.SetParamValues("doctor", "select")
	if err := h.Step(c); !errors.Is(err, domain.ErrWizardClosed) {
		t.Fatalf("expected ErrWizardClosed, got %v", err)
	}

	c, _ = newContext(newEcho(), http.MethodPost, "/patient/booking/doctor/open", `{"value":`, patientSession())
	c.SetParamNames("step", "action")
	c.SetParamValues("doctor", "open")
	if err := h.Step(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for a malformed body, got %v", err)
	}

	c, _ = newContext(newEcho(), http.MethodPost, "/patient/booking/doctor/open", "", nil)
	if err := h.Step(c); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound without a session, got %v", err)
	}
}

func TestBookingHandler_Submit(t *testing.T) {
	stub := &stubBookingService{submitFn: func() (*domain.Appointment, error) {
		return &domain.Appointment{ID: "a-9"}, nil
	}}
	dash := &stubPatientDashboard{}
	h := NewBookingHandler(stub, dash)

	c, rec := newContext(newEcho(), http.MethodPost, "/patient/booking/submit", "", patientSession())
	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body struct {
		Appointment domain.Appointment `json:"appointment"`
		View        ports.PatientView  `json:"view"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Appointment.ID != "a-9" || len(body.View.Appointments) != 1 || dash.calls != 1 {
		t.Fatalf("expected the appointment with a refreshed list, got %s", rec.Body.String())
	}
}

func TestBookingHandler_SubmitConflict(t *testing.T) {
	stub := &stubBookingService{submitFn: func() (*domain.Appointment, error) {
		return nil, domain.WithMessage(domain.ErrConflict, "taken")
	}}
	dash := &stubPatientDashboard{}
	h := NewBookingHandler(stub, dash)

	c, _ := newContext(newEcho(), http.MethodPost, "/patient/booking/submit", "", patientSession())
	if err := h.Submit(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if dash.calls != 0 {
		t.Fatalf("the list must not be refreshed after a failed booking")
	}
}

func TestBookingHandler_Close(t *testing.T) {
	stub := &stubBookingService{}
	h := NewBookingHandler(stub, &stubPatientDashboard{})

	c, rec := newContext(newEcho(), http.MethodDelete, "/patient/booking", "", patientSession())
	if err := h.Close(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || stub.closed != 1 {
		t.Fatalf("expected 204 and one close, got %d / %d", rec.Code, stub.closed)
	}
}
