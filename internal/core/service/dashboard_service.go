package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

type dashboardService struct {
	gateway ports.Gateway
}

// NewDashboardService returns a DashboardService backed by gateway.
func NewDashboardService(gateway ports.Gateway) ports.DashboardService {
	return &dashboardService{gateway: gateway}
}

// fetchAll runs every fetch to completion and joins their errors. A failing
// fetch does not cancel the others.
func fetchAll(fetches ...func() error) error {
	var g errgroup.Group
	errs := make([]error, len(fetches))
	for i, fetch := range fetches {
		g.Go(func() error {
			errs[i] = fetch()
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *dashboardService) profile(ctx context.Context, sess *domain.Session, out *domain.Profile) func() error {
	return func() error {
		spec, ok := domain.ProfileSpecs[sess.Identity.Role]
		if !ok {
			return fmt.Errorf("profile: %w", domain.ErrInvalidRole)
		}
		if err := s.gateway.Do(ctx, spec.Backend, sess.ID, ports.Request{Path: spec.ItemPath(sess.Identity.ID)}, out); err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		return nil
	}
}

func (s *dashboardService) list(ctx context.Context, sess *domain.Session, backend domain.Backend, path string, query url.Values, out any) func() error {
	return func() error {
		if err := s.gateway.Do(ctx, backend, sess.ID, ports.Request{Path: path, Query: query}, out); err != nil {
			return fmt.Errorf("fetch %s%s: %w", backend, path, err)
		}
		return nil
	}
}

func (s *dashboardService) Patient(ctx context.Context, sess *domain.Session) (*ports.PatientView, error) {
	v := &ports.PatientView{}
	err := fetchAll(
		s.profile(ctx, sess, &v.Profile),
		s.list(ctx, sess, domain.BackendAppointments, "/appointments/",
			url.Values{"patient_user_id": {sess.Identity.ID}}, &v.Appointments),
	)
	domain.SortAppointmentsByStart(v.Appointments)
	return v, err
}

func (s *dashboardService) Doctor(ctx context.Context, sess *domain.Session) (*ports.DoctorView, error) {
	v := &ports.DoctorView{}
	err := fetchAll(
		s.profile(ctx, sess, &v.Profile),
		s.list(ctx, sess, domain.BackendAppointments, "/appointments/",
			url.Values{"doctor_user_id": {sess.Identity.ID}}, &v.Appointments),
	)
	domain.SortAppointmentsByStart(v.Appointments)
	return v, err
}

func (s *dashboardService) Pharmacist(ctx context.Context, sess *domain.Session) (*ports.PharmacistView, error) {
	v := &ports.PharmacistView{}
	err := fetchAll(
		s.profile(ctx, sess, &v.Profile),
		s.list(ctx, sess, domain.BackendPrescription, "/prescriptions/",
			url.Values{"status": {domain.PrescriptionActive}}, &v.Prescriptions),
	)
	domain.SortPrescriptionsNewestFirst(v.Prescriptions)
	return v, err
}

func (s *dashboardService) Nurse(ctx context.Context, sess *domain.Session) (*ports.NurseView, error) {
	v := &ports.NurseView{}
	err := fetchAll(
		s.profile(ctx, sess, &v.Profile),
		s.list(ctx, sess, domain.BackendNurse, "/vitals/",
			url.Values{"nurse_user_id": {sess.Identity.ID}}, &v.Vitals),
	)
	return v, err
}

func (s *dashboardService) LabTech(ctx context.Context, sess *domain.Session) (*ports.LabTechView, error) {
	v := &ports.LabTechView{Templates: domain.TestTemplates}
	err := fetchAll(
		s.profile(ctx, sess, &v.Profile),
		s.list(ctx, sess, domain.BackendLab, "/orders/",
			url.Values{"status": {domain.LabOrderOrdered}}, &v.PendingOrders),
		s.list(ctx, sess, domain.BackendLab, "/results/",
			url.Values{"lab_technician_user_id": {sess.Identity.ID}}, &v.Results),
	)
	domain.SortLabOrdersOldestFirst(v.PendingOrders)
	return v, err
}

func (s *dashboardService) Admin(ctx context.Context, sess *domain.Session) (*ports.AdminView, error) {
	v := &ports.AdminView{}
	err := fetchAll(
		s.profile(ctx, sess, &v.Profile),
		s.list(ctx, sess, domain.BackendAdministrator, "/users/", nil, &v.Users),
	)
	return v, err
}

// MedicalHistory loads a patient's history. Patients may only read their own.
func (s *dashboardService) MedicalHistory(ctx context.Context, sess *domain.Session, patientUserID string) (domain.MedicalHistory, error) {
	if patientUserID == "" {
		patientUserID = sess.Identity.ID
	}
	if sess.Identity.Role == domain.RolePatient && patientUserID != sess.Identity.ID {
		return nil, domain.ErrForbiddenRole
	}

	var history domain.MedicalHistory
	err := s.gateway.Do(ctx, domain.BackendMedicalRecords, sess.ID, ports.Request{
		Path: "/patients/" + url.PathEscape(patientUserID) + "/medical_history/",
	}, &history)
	if err != nil {
		return nil, fmt.Errorf("fetch medical history: %w", err)
	}
	return history, nil
}
