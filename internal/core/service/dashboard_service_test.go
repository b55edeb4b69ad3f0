package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

func TestDashboardService_Patient(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{handle: func(backend domain.Backend, req ports.Request) (any, error) {
		switch {
		case backend == domain.BackendPatient && req.Path == "/patients/p-1/":
			return map[string]any{"user_id": "p-1", "phone_number": "555"}, nil
		case backend == domain.BackendAppointments && req.Path == "/appointments/":
			if req.Query.Get("patient_user_id") != "p-1" {
				t.Errorf("unexpected query %v", req.Query)
			}
			return []domain.Appointment{
				{ID: "late", StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour)},
				{ID: "early", StartTime: base, EndTime: base.Add(time.Hour)},
			}, nil
		}
		t.Errorf("unexpected call %s %s", backend, req.Path)
		return nil, domain.ErrNotFound
	}}
	svc := NewDashboardService(gw)

	v, err := svc.Patient(context.Background(), sessionFor(domain.RolePatient, "p-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Profile["phone_number"] != "555" {
		t.Fatalf("unexpected profile %v", v.Profile)
	}
	if len(v.Appointments) != 2 || v.Appointments[0].ID != "early" {
		t.Fatalf("appointments must be sorted by start, got %+v", v.Appointments)
	}

	call, _ := gw.find(domain.BackendPatient, http.MethodGet, "/patients/p-1/")
	if call.SessionID != "sess-p-1" {
		t.Fatalf("calls must carry the session, got %q", call.SessionID)
	}
}

func TestDashboardService_Pharmacist_NewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{handle: func(backend domain.Backend, req ports.Request) (any, error) {
		if backend == domain.BackendPrescription {
			if req.Query.Get("status") != domain.PrescriptionActive {
				t.Errorf("expected active prescriptions only, got %v", req.Query)
			}
			return []domain.Prescription{
				{ID: "old", PrescriptionDate: base},
				{ID: "new", PrescriptionDate: base.Add(24 * time.Hour)},
			}, nil
		}
		return map[string]any{}, nil
	}}

	v, err := NewDashboardService(gw).Pharmacist(context.Background(), sessionFor(domain.RolePharmacist, "ph-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Prescriptions[0].ID != "new" {
		t.Fatalf("expected newest first, got %+v", v.Prescriptions)
	}
}

func TestDashboardService_LabTech(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	gw := &stubGateway{handle: func(backend domain.Backend, req ports.Request) (any, error) {
		switch req.Path {
		case "/orders/":
			return []domain.LabOrder{
				{ID: "second", OrderDate: base.Add(time.Hour)},
				{ID: "first", OrderDate: base},
			}, nil
		case "/results/":
			if req.Query.Get("lab_technician_user_id") != "lt-1" {
				t.Errorf("unexpected query %v", req.Query)
			}
			return []domain.LabResult{}, nil
		}
		return map[string]any{}, nil
	}}

	v, err := NewDashboardService(gw).LabTech(context.Background(), sessionFor(domain.RoleLabTechnician, "lt-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.PendingOrders[0].ID != "first" {
		t.Fatalf("expected oldest order first, got %+v", v.PendingOrders)
	}
	if len(v.Templates) == 0 {
		t.Fatalf("expected the test templates in the view")
	}
	if _, ok := gw.find(domain.BackendLab, http.MethodGet, "/labtechs/lt-1/"); !ok {
		t.Fatalf("expected the lab technician profile to be fetched")
	}
}

func TestDashboardService_JoinsEveryFailure(t *testing.T) {
	gw := &stubGateway{handle: func(backend domain.Backend, req ports.Request) (any, error) {
		if backend == domain.BackendDoctor {
			return nil, domain.ErrServiceUnavailable
		}
		return nil, domain.ErrUpstream
	}}

	_, err := NewDashboardService(gw).Doctor(context.Background(), sessionFor(domain.RoleDoctor, "d-1"))
	if !errors.Is(err, domain.ErrServiceUnavailable) || !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected both failures joined, got %v", err)
	}
	if gw.count() != 2 {
		t.Fatalf("a failing fetch must not cancel the others, got %d calls", gw.count())
	}
}

func TestDashboardService_UnknownRoleProfile(t *testing.T) {
	gw := &stubGateway{handle: func(domain.Backend, ports.Request) (any, error) { return []any{}, nil }}
	sess := sessionFor(domain.Role("janitor"), "x-1")

	if _, err := NewDashboardService(gw).Admin(context.Background(), sess); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestDashboardService_MedicalHistory(t *testing.T) {
	gw := &stubGateway{handle: func(domain.Backend, ports.Request) (any, error) {
		return map[string]any{"reports": []any{}}, nil
	}}
	svc := NewDashboardService(gw)
	ctx := context.Background()

	if _, err := svc.MedicalHistory(ctx, sessionFor(domain.RolePatient, "p-1"), ""); err != nil {
		t.Fatalf("own history: %v", err)
	}
	if _, ok := gw.find(domain.BackendMedicalRecords, http.MethodGet, "/patients/p-1/medical_history/"); !ok {
		t.Fatalf("expected the patient's own history to be fetched")
	}

	if _, err := svc.MedicalHistory(ctx, sessionFor(domain.RolePatient, "p-1"), "p-2"); !errors.Is(err, domain.ErrForbiddenRole) {
		t.Fatalf("expected ErrForbiddenRole, got %v", err)
	}

	if _, err := svc.MedicalHistory(ctx, sessionFor(domain.RoleDoctor, "d-1"), "p-2"); err != nil {
		t.Fatalf("doctor reading a patient: %v", err)
	}
}
