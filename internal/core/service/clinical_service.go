package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

type clinicalService struct {
	gateway ports.Gateway
	now     func() time.Time
}

// NewClinicalService returns the write side of the staff dashboards.
func NewClinicalService(gateway ports.Gateway) ports.ClinicalService {
	return &clinicalService{gateway: gateway, now: func() time.Time { return time.Now().UTC() }}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *clinicalService) post(ctx context.Context, sess *domain.Session, backend domain.Backend, path string, body, out any) error {
	return s.gateway.Do(ctx, backend, sess.ID, ports.Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (s *clinicalService) CreateReport(ctx context.Context, sess *domain.Session, in ports.ReportInput) (*domain.MedicalReport, error) {
	report := domain.MedicalReport{
		PatientUserID: in.PatientUserID,
		DoctorUserID:  sess.Identity.ID,
		Title:         in.Title,
		Content:       in.Content,
		ReportDate:    s.now(),
	}
	created := report
	if err := s.post(ctx, sess, domain.BackendMedicalRecords, "/reports/", report, &created); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return &created, nil
}

func (s *clinicalService) CreatePrescription(ctx context.Context, sess *domain.Session, in ports.PrescriptionInput) (*domain.Prescription, error) {
	p := domain.Prescription{
		PatientUserID:    in.PatientUserID,
		DoctorUserID:     sess.Identity.ID,
		MedicationName:   in.MedicationName,
		Dosage:           in.Dosage,
		Frequency:        in.Frequency,
		Duration:         in.Duration,
		Notes:            optional(in.Notes),
		PrescriptionDate: s.now(),
	}
	created := p
	if err := s.post(ctx, sess, domain.BackendPrescription, "/prescriptions/", p, &created); err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}
	return &created, nil
}

func (s *clinicalService) CreateLabOrder(ctx context.Context, sess *domain.Session, in ports.LabOrderInput) (*domain.LabOrder, error) {
	order := domain.LabOrder{
		PatientUserID: in.PatientUserID,
		DoctorUserID:  sess.Identity.ID,
		TestType:      in.TestType,
		Notes:         optional(in.Notes),
		OrderDate:     s.now(),
	}
	created := order
	if err := s.post(ctx, sess, domain.BackendLab, "/orders/", order, &created); err != nil {
		return nil, fmt.Errorf("create lab order: %w", err)
	}
	return &created, nil
}

func (s *clinicalService) FulfillPrescription(ctx context.Context, sess *domain.Session, prescriptionID string) error {
	if prescriptionID == "" {
		return fmt.Errorf("%w: prescription id is required", domain.ErrValidation)
	}
	body := domain.Fulfillment{PrescriptionID: prescriptionID, PharmacistUserID: sess.Identity.ID}
	if err := s.post(ctx, sess, domain.BackendPharmacist, "/pharmacists/fulfill/", body, nil); err != nil {
		return fmt.Errorf("fulfill prescription: %w", err)
	}
	return nil
}

func (s *clinicalService) ListPatients(ctx context.Context, sess *domain.Session) ([]domain.Profile, error) {
	var patients []domain.Profile
	if err := s.gateway.Do(ctx, domain.BackendPatient, sess.ID, ports.Request{Path: "/patients/"}, &patients); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (s *clinicalService) RecordVitals(ctx context.Context, sess *domain.Session, in ports.VitalsInput) (*domain.Vitals, error) {
	ts := s.now()
	if in.Timestamp != nil {
		ts = in.Timestamp.UTC()
	}
	v := domain.Vitals{
		PatientUserID:              in.PatientUserID,
		NurseUserID:                sess.Identity.ID,
		Timestamp:                  ts,
		TemperatureCelsius:         in.TemperatureCelsius,
		BloodPressureSystolic:      in.BloodPressureSystolic,
		BloodPressureDiastolic:     in.BloodPressureDiastolic,
		HeartRateBPM:               in.HeartRateBPM,
		RespiratoryRateBPM:         in.RespiratoryRateBPM,
		OxygenSaturationPercentage: in.OxygenSaturationPercentage,
		Notes:                      optional(in.Notes),
	}
	created := v
	if err := s.post(ctx, sess, domain.BackendNurse, "/vitals/", v, &created); err != nil {
		return nil, fmt.Errorf("record vitals: %w", err)
	}
	return &created, nil
}

func (s *clinicalService) RecordLabResult(ctx context.Context, sess *domain.Session, in ports.LabResultInput) (*domain.LabResult, error) {
	data, err := domain.BuildResultData(in.Parameters)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	date := s.now()
	if in.ResultDate != nil {
		date = in.ResultDate.UTC()
	}
	status := in.Status
	if status == "" {
		status = domain.ResultFinal
	}

	result := domain.LabResult{
		LabOrderID:          in.LabOrderID,
		LabTechnicianUserID: sess.Identity.ID,
		ResultDate:          date,
		ResultData:          data,
		Status:              status,
		Notes:               optional(in.Notes),
	}
	created := result
	if err := s.post(ctx, sess, domain.BackendLab, "/results/", result, &created); err != nil {
		return nil, fmt.Errorf("record lab result: %w", err)
	}
	return &created, nil
}
