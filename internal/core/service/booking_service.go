package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/portal/internal/core/domain"
	"github.com/medicare/portal/internal/core/ports"
)

const bookingFlow = "booking"

type bookingService struct {
	gateway ports.Gateway
	drafts  ports.DraftRepository
	loc     *time.Location
	log     zerolog.Logger
	now     func() time.Time
}

// NewBookingService returns the booking dialog service. Dates and slots are
// interpreted in loc.
func NewBookingService(gateway ports.Gateway, drafts ports.DraftRepository, loc *time.Location, log zerolog.Logger) ports.BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingService{
		gateway: gateway,
		drafts:  drafts,
		loc:     loc,
		log:     log.With().Str("component", "booking").Logger(),
		now:     time.Now,
	}
}

func (s *bookingService) load(ctx context.Context, sess *domain.Session) (*domain.BookingDraft, error) {
	draft := domain.NewBookingDraft()
	if _, err := s.drafts.Load(ctx, sess.ID, bookingFlow, draft); err != nil {
		return nil, fmt.Errorf("load booking draft: %w", err)
	}
	return draft, nil
}

func (s *bookingService) save(ctx context.Context, sess *domain.Session, draft *domain.BookingDraft) error {
	if err := s.drafts.Save(ctx, sess.ID, bookingFlow, draft); err != nil {
		return fmt.Errorf("save booking draft: %w", err)
	}
	return nil
}

func (s *bookingService) View(ctx context.Context, sess *domain.Session) (*ports.BookingView, error) {
	draft, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess, draft); err != nil {
		return nil, err
	}
	return s.view(ctx, sess, draft)
}

// view attaches the options of whichever picker is open.
func (s *bookingService) view(ctx context.Context, sess *domain.Session, draft *domain.BookingDraft) (*ports.BookingView, error) {
	v := &ports.BookingView{Draft: draft}
	switch {
	case draft.DoctorPicker.IsOpen():
		doctors, err := s.doctors(ctx, sess)
		if err != nil {
			return nil, err
		}
		v.Doctors = doctors
	case draft.DatePicker.IsOpen():
		v.MinDate = s.now().In(s.loc).Format(domain.DateLayout)
	case draft.TimePicker.IsOpen() && draft.Form.Date != nil:
		booked, err := s.booked(ctx, sess, draft.Form.Doctor)
		if err != nil {
			return nil, err
		}
		v.Slots = domain.SlotsByPeriod(domain.AvailableSlots(*draft.Form.Date, s.now(), s.loc, booked))
	}
	return v, nil
}

func (s *bookingService) doctors(ctx context.Context, sess *domain.Session) ([]domain.DoctorChoice, error) {
	var doctors []domain.DoctorChoice
	if err := s.gateway.Do(ctx, domain.BackendDoctor, sess.ID, ports.Request{Path: "/doctors/"}, &doctors); err != nil {
		return nil, fmt.Errorf("fetch doctors: %w", err)
	}
	return doctors, nil
}

// booked returns the ranges the doctor is already busy.
func (s *bookingService) booked(ctx context.Context, sess *domain.Session, doctor *domain.DoctorChoice) ([]domain.TimeRange, error) {
	if doctor == nil {
		return nil, nil
	}
	var appts []domain.Appointment
	err := s.gateway.Do(ctx, domain.BackendAppointments, sess.ID, ports.Request{
		Path:  "/appointments/",
		Query: url.Values{"doctor_user_id": {doctor.UserID}},
	}, &appts)
	if err != nil {
		return nil, fmt.Errorf("fetch doctor appointments: %w", err)
	}
	ranges := make([]domain.TimeRange, 0, len(appts))
	for _, a := range appts {
		if a.Blocking() {
			ranges = append(ranges, a.Range())
		}
	}
	return ranges, nil
}

func (s *bookingService) Step(ctx context.Context, sess *domain.Session, step ports.BookingStep, action domain.WizardAction, value string) (*ports.BookingView, error) {
	draft, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}

	switch step {
	case ports.StepDoctor:
		err = s.doctorStep(ctx, sess, draft, action, value)
	case ports.StepDate:
		err = s.dateStep(draft, action, value)
	case ports.StepTime:
		err = s.timeStep(ctx, sess, draft, action, value)
	default:
		err = fmt.Errorf("%w: step %q", domain.ErrUnknownOption, step)
	}
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, sess, draft); err != nil {
		return nil, err
	}
	return s.view(ctx, sess, draft)
}

func (s *bookingService) doctorStep(ctx context.Context, sess *domain.Session, draft *domain.BookingDraft, action domain.WizardAction, value string) error {
	w := &draft.DoctorPicker
	switch action {
	case domain.ActionOpen:
		w.Open(draft.Form.Doctor)
	case domain.ActionSelect:
		if !w.IsOpen() {
			return domain.ErrWizardClosed
		}
		doctors, err := s.doctors(ctx, sess)
		if err != nil {
			return err
		}
		for _, d := range doctors {
			if d.UserID == value {
				return w.Select(d)
			}
		}
		return fmt.Errorf("%w: doctor %q", domain.ErrUnknownOption, value)
	case domain.ActionConfirm:
		d, ok, err := w.Confirm()
		if err != nil {
			return err
		}
		if ok {
			draft.Form.Doctor = &d
		}
	case domain.ActionCancel:
		w.Cancel()
	default:
		return fmt.Errorf("%w: action %q", domain.ErrUnknownOption, action)
	}
	return nil
}

func (s *bookingService) dateStep(draft *domain.BookingDraft, action domain.WizardAction, value string) error {
	w := &draft.DatePicker
	switch action {
	case domain.ActionOpen:
		w.Open(draft.Form.Date)
	case domain.ActionSelect:
		if !w.IsOpen() {
			return domain.ErrWizardClosed
		}
		if err := domain.DateAvailable(value, s.now(), s.loc); err != nil {
			return err
		}
		return w.Select(value)
	case domain.ActionConfirm:
		d, ok, err := w.Confirm()
		if err != nil {
			return err
		}
		if ok {
			draft.Form.Date = &d
		}
	case domain.ActionCancel:
		w.Cancel()
	default:
		return fmt.Errorf("%w: action %q", domain.ErrUnknownOption, action)
	}
	return nil
}

func (s *bookingService) timeStep(ctx context.Context, sess *domain.Session, draft *domain.BookingDraft, action domain.WizardAction, value string) error {
	w := &draft.TimePicker
	switch action {
	case domain.ActionOpen:
		if draft.Form.Date == nil {
			return fmt.Errorf("%w: please select a date first", domain.ErrValidation)
		}
		w.Open(draft.Form.Time)
	case domain.ActionSelect:
		if !w.IsOpen() {
			return domain.ErrWizardClosed
		}
		slot, ok := domain.FindTimeSlot(value)
		if !ok {
			return fmt.Errorf("%w: time %q", domain.ErrUnknownOption, value)
		}
		booked, err := s.booked(ctx, sess, draft.Form.Doctor)
		if err != nil {
			return err
		}
		if !domain.SlotAvailable(*draft.Form.Date, slot, s.now(), s.loc, booked) {
			return domain.ErrSlotUnavailable
		}
		return w.Select(slot)
	case domain.ActionConfirm:
		t, ok, err := w.Confirm()
		if err != nil {
			return err
		}
		if ok {
			draft.Form.Time = &t
		}
	case domain.ActionCancel:
		w.Cancel()
	default:
		return fmt.Errorf("%w: action %q", domain.ErrUnknownOption, action)
	}
	return nil
}

// Submit books the committed doctor, date and time as a two hour
// appointment and discards the draft on success.
func (s *bookingService) Submit(ctx context.Context, sess *domain.Session) (*domain.Appointment, error) {
	draft, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	form := draft.Form
	if !form.Complete() {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrIncompleteBooking)
	}
	if err := domain.DateAvailable(*form.Date, s.now(), s.loc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	window, err := domain.AppointmentWindow(*form.Date, *form.Time, s.loc)
	if err != nil {
		return nil, err
	}
	if window.Start.Before(s.now()) {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrSlotUnavailable)
	}

	req := domain.AppointmentRequest{
		PatientUserID: sess.Identity.ID,
		DoctorUserID:  form.Doctor.UserID,
		StartTime:     window.Start,
		EndTime:       window.End,
	}
	var created domain.Appointment
	err = s.gateway.Do(ctx, domain.BackendAppointments, sess.ID, ports.Request{
		Method: http.MethodPost,
		Path:   "/appointments/",
		Body:   req,
	}, &created)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.WithFallbackMessage(err, "The doctor is not available at the selected time. Please choose another slot.")
		}
		return nil, fmt.Errorf("book appointment: %w", err)
	}

	// the appointment exists; a stale draft only lingers until its TTL
	if err := s.drafts.Delete(ctx, sess.ID, bookingFlow); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to discard booking draft")
	}
	s.log.Info().Str("appointment_id", created.ID).Str("doctor_user_id", req.DoctorUserID).Msg("appointment booked")
	return &created, nil
}

func (s *bookingService) Close(ctx context.Context, sess *domain.Session) error {
	if err := s.drafts.Delete(ctx, sess.ID, bookingFlow); err != nil {
		return fmt.Errorf("discard booking draft: %w", err)
	}
	return nil
}
