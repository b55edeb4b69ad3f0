package domain

import (
	"sort"
	"time"
)

// Profile is a role-specific profile document as returned by a backend.
// The portal passes it through without interpreting its fields.
type Profile map[string]any

// MedicalHistory is the aggregated history document of one patient.
type MedicalHistory map[string]any

// PersonRef is the short form of a user embedded in other records.
type PersonRef struct {
	UserID    string `json:"user_id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Appointment status values.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID            string     `json:"id"`
	PatientUserID string     `json:"patient_user_id"`
	DoctorUserID  string     `json:"doctor_user_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Status        string     `json:"status"`
	Notes         *string    `json:"notes,omitempty"`
	Patient       *PersonRef `json:"patient,omitempty"`
	Doctor        *PersonRef `json:"doctor,omitempty"`
}

// Range returns the interval the appointment occupies.
func (a Appointment) Range() TimeRange {
	return TimeRange{Start: a.StartTime, End: a.EndTime}
}

// Blocking reports whether the appointment still occupies the doctor.
func (a Appointment) Blocking() bool {
	return a.Status != AppointmentCancelled
}

// AppointmentRequest is the payload sent to book an appointment.
type AppointmentRequest struct {
	PatientUserID string    `json:"patient_user_id"`
	DoctorUserID  string    `json:"doctor_user_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

// Prescription status values.
const (
	PrescriptionActive    = "active"
	PrescriptionFulfilled = "fulfilled"
)

type Prescription struct {
	ID               string    `json:"id,omitempty"`
	PatientUserID    string    `json:"patient_user_id"`
	DoctorUserID     string    `json:"doctor_user_id"`
	MedicationName   string    `json:"medication_name"`
	Dosage           string    `json:"dosage"`
	Frequency        string    `json:"frequency"`
	Duration         string    `json:"duration"`
	Notes            *string   `json:"notes"`
	PrescriptionDate time.Time `json:"prescription_date"`
	Status           string    `json:"status,omitempty"`
}

// Fulfillment marks a prescription as dispensed by a pharmacist.
type Fulfillment struct {
	PrescriptionID   string `json:"prescription_id"`
	PharmacistUserID string `json:"pharmacist_user_id"`
}

// Lab order status values.
const (
	LabOrderOrdered   = "ordered"
	LabOrderCompleted = "completed"
)

type LabOrder struct {
	ID            string    `json:"id,omitempty"`
	PatientUserID string    `json:"patient_user_id"`
	DoctorUserID  string    `json:"doctor_user_id"`
	TestType      string    `json:"test_type"`
	Notes         *string   `json:"notes"`
	OrderDate     time.Time `json:"order_date"`
	Status        string    `json:"status,omitempty"`
}

// Lab result status values.
const (
	ResultPreliminary = "preliminary"
	ResultFinal       = "final"
	ResultCorrected   = "corrected"
)

type LabResult struct {
	ID                  string                 `json:"id,omitempty"`
	LabOrderID          string                 `json:"lab_order_id"`
	LabTechnicianUserID string                 `json:"lab_technician_user_id"`
	ResultDate          time.Time              `json:"result_date"`
	ResultData          map[string]ResultValue `json:"result_data"`
	Status              string                 `json:"status"`
	Notes               *string                `json:"notes"`
}

type MedicalReport struct {
	ID            string    `json:"id,omitempty"`
	PatientUserID string    `json:"patient_user_id"`
	DoctorUserID  string    `json:"doctor_user_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ReportDate    time.Time `json:"report_date"`
}

// Vitals is one set of measurements. Unmeasured values are sent as null.
type Vitals struct {
	ID                         string    `json:"id,omitempty"`
	PatientUserID              string    `json:"patient_user_id"`
	NurseUserID                string    `json:"nurse_user_id"`
	Timestamp                  time.Time `json:"timestamp"`
	TemperatureCelsius         *float64  `json:"temperature_celsius"`
	BloodPressureSystolic      *int      `json:"blood_pressure_systolic"`
	BloodPressureDiastolic     *int      `json:"blood_pressure_diastolic"`
	HeartRateBPM               *int      `json:"heart_rate_bpm"`
	RespiratoryRateBPM         *int      `json:"respiratory_rate_bpm"`
	OxygenSaturationPercentage *float64  `json:"oxygen_saturation_percentage"`
	Notes                      *string   `json:"notes"`
}

// UserAccount is a user as listed by the administrator service.
type UserAccount = Identity

// NewUser is the first step of the administrator's two-step create.
type NewUser struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	UserType  Role    `json:"user_type"`
}

// UserUpdate is a partial update of an existing user.
type UserUpdate struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	UserType  *Role   `json:"user_type,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// SortAppointmentsByStart orders appointments soonest first.
func SortAppointmentsByStart(a []Appointment) {
	sort.SliceStable(a, func(i, j int) bool { return a[i].StartTime.Before(a[j].StartTime) })
}

// SortPrescriptionsNewestFirst orders prescriptions by descending date.
func SortPrescriptionsNewestFirst(p []Prescription) {
	sort.SliceStable(p, func(i, j int) bool { return p[i].PrescriptionDate.After(p[j].PrescriptionDate) })
}

// SortLabOrdersOldestFirst orders lab orders by ascending order date.
func SortLabOrdersOldestFirst(o []LabOrder) {
	sort.SliceStable(o, func(i, j int) bool { return o[i].OrderDate.Before(o[j].OrderDate) })
}
