package ports

import (
	"context"
	"time"

	"github.com/medicare/portal/internal/core/domain"
)

// AuthService opens and closes portal sessions.
type AuthService interface {
	Login(ctx context.Context, username, password, previousSessionID string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// ── Dashboard views ───────────────────────────────────────────────────────────

type PatientView struct {
	Profile      domain.Profile       `json:"profile"`
	Appointments []domain.Appointment `json:"appointments"`
}

type DoctorView struct {
	Profile      domain.Profile       `json:"profile"`
	Appointments []domain.Appointment `json:"appointments"`
}

type PharmacistView struct {
	Profile       domain.Profile        `json:"profile"`
	Prescriptions []domain.Prescription `json:"prescriptions"`
}

type NurseView struct {
	Profile domain.Profile  `json:"profile"`
	Vitals  []domain.Vitals `json:"vitals"`
}

type LabTechView struct {
	Profile       domain.Profile        `json:"profile"`
	PendingOrders []domain.LabOrder     `json:"pending_orders"`
	Results       []domain.LabResult    `json:"results"`
	Templates     []domain.TestTemplate `json:"templates"`
}

type AdminView struct {
	Profile domain.Profile       `json:"profile"`
	Users   []domain.UserAccount `json:"users"`
}

// DashboardService loads the data behind each role's dashboard. Independent
// fetches run concurrently and all of their failures are reported together.
type DashboardService interface {
	Patient(ctx context.Context, sess *domain.Session) (*PatientView, error)
	Doctor(ctx context.Context, sess *domain.Session) (*DoctorView, error)
	Pharmacist(ctx context.Context, sess *domain.Session) (*PharmacistView, error)
	Nurse(ctx context.Context, sess *domain.Session) (*NurseView, error)
	LabTech(ctx context.Context, sess *domain.Session) (*LabTechView, error)
	Admin(ctx context.Context, sess *domain.Session) (*AdminView, error)
	MedicalHistory(ctx context.Context, sess *domain.Session, patientUserID string) (domain.MedicalHistory, error)
}

// ── Clinical actions ──────────────────────────────────────────────────────────

type ReportInput struct {
	PatientUserID string `json:"patient_user_id" validate:"required"`
	Title         string `json:"title"           validate:"required"`
	Content       string `json:"content"         validate:"required"`
}

type PrescriptionInput struct {
	PatientUserID  string `json:"patient_user_id" validate:"required"`
	MedicationName string `json:"medication_name" validate:"required"`
	Dosage         string `json:"dosage"          validate:"required"`
	Frequency      string `json:"frequency"       validate:"required"`
	Duration       string `json:"duration"        validate:"required"`
	Notes          string `json:"notes"`
}

type LabOrderInput struct {
	PatientUserID string `json:"patient_user_id" validate:"required"`
	TestType      string `json:"test_type"       validate:"required"`
	Notes         string `json:"notes"`
}

type VitalsInput struct {
	PatientUserID              string     `json:"patient_user_id" validate:"required"`
	Timestamp                  *time.Time `json:"timestamp"`
	TemperatureCelsius         *float64   `json:"temperature_celsius"          validate:"omitempty,gt=25,lt=45"`
	BloodPressureSystolic      *int       `json:"blood_pressure_systolic"      validate:"omitempty,gt=0"`
	BloodPressureDiastolic     *int       `json:"blood_pressure_diastolic"     validate:"omitempty,gt=0"`
	HeartRateBPM               *int       `json:"heart_rate_bpm"               validate:"omitempty,gt=0"`
	RespiratoryRateBPM         *int       `json:"respiratory_rate_bpm"         validate:"omitempty,gt=0"`
	OxygenSaturationPercentage *float64   `json:"oxygen_saturation_percentage" validate:"omitempty,gte=0,lte=100"`
	Notes                      string     `json:"notes"`
}

type LabResultInput struct {
	LabOrderID string                 `json:"lab_order_id" validate:"required"`
	ResultDate *time.Time             `json:"result_date"`
	Status     string                 `json:"status"       validate:"omitempty,oneof=preliminary final corrected"`
	Parameters []domain.TestParameter `json:"parameters"   validate:"dive"`
	Notes      string                 `json:"notes"`
}

// ClinicalService carries out the write actions of the staff dashboards.
type ClinicalService interface {
	CreateReport(ctx context.Context, sess *domain.Session, in ReportInput) (*domain.MedicalReport, error)
	CreatePrescription(ctx context.Context, sess *domain.Session, in PrescriptionInput) (*domain.Prescription, error)
	CreateLabOrder(ctx context.Context, sess *domain.Session, in LabOrderInput) (*domain.LabOrder, error)
	FulfillPrescription(ctx context.Context, sess *domain.Session, prescriptionID string) error
	ListPatients(ctx context.Context, sess *domain.Session) ([]domain.Profile, error)
	RecordVitals(ctx context.Context, sess *domain.Session, in VitalsInput) (*domain.Vitals, error)
	RecordLabResult(ctx context.Context, sess *domain.Session, in LabResultInput) (*domain.LabResult, error)
}

// ── Booking ───────────────────────────────────────────────────────────────────

// BookingStep names one picker of the booking dialog.
type BookingStep string

const (
	StepDoctor BookingStep = "doctor"
	StepDate   BookingStep = "date"
	StepTime   BookingStep = "time"
)

// BookingView is the booking dialog as the browser renders it. Options are
// only filled for the picker that is currently open.
type BookingView struct {
	Draft   *domain.BookingDraft                 `json:"draft"`
	Doctors []domain.DoctorChoice                `json:"doctors,omitempty"`
	MinDate string                               `json:"min_date,omitempty"`
	Slots   map[string][]domain.SlotAvailability `json:"slots,omitempty"`
}

// BookingService runs the patient's appointment booking dialog.
type BookingService interface {
	View(ctx context.Context, sess *domain.Session) (*BookingView, error)
	Step(ctx context.Context, sess *domain.Session, step BookingStep, action domain.WizardAction, value string) (*BookingView, error)
	Submit(ctx context.Context, sess *domain.Session) (*domain.Appointment, error)
	Close(ctx context.Context, sess *domain.Session) error
}

// ── Administration ────────────────────────────────────────────────────────────

type CreateUserInput struct {
	Username  string            `json:"username"   validate:"required"`
	Password  string            `json:"password"   validate:"required,min=6"`
	Email     string            `json:"email"      validate:"omitempty,email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	UserType  domain.Role       `json:"user_type"`
	Profile   map[string]string `json:"profile"`
}

// CreateUserResult reports both steps of a user creation. Warning is set
// when the user exists but its role profile could not be created.
type CreateUserResult struct {
	User    domain.UserAccount `json:"user"`
	Profile domain.Profile     `json:"profile,omitempty"`
	Warning string             `json:"warning,omitempty"`
}

// AdminService manages user accounts.
type AdminService interface {
	CreateUser(ctx context.Context, sess *domain.Session, in CreateUserInput) (*CreateUserResult, error)
	GetUser(ctx context.Context, sess *domain.Session, userID string) (*domain.UserAccount, error)
	UpdateUser(ctx context.Context, sess *domain.Session, userID string, in domain.UserUpdate) (*domain.UserAccount, error)
	DeleteUser(ctx context.Context, sess *domain.Session, userID string) error
	UserTypeDraft(ctx context.Context, sess *domain.Session) (*domain.UserTypeDraft, error)
	UserTypeStep(ctx context.Context, sess *domain.Session, action domain.WizardAction, ctxName domain.UserTypeContext, value string) (*domain.UserTypeDraft, error)
}

// ── Chat ──────────────────────────────────────────────────────────────────────

type ChatInput struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Speak     bool   `json:"speak"`
}

// ChatService relays messages to the assistant. sess is nil for anonymous
// visitors.
type ChatService interface {
	Send(ctx context.Context, sess *domain.Session, in ChatInput) (*domain.ChatReply, error)
}
