package domain

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire and form format of a calendar date.
	DateLayout = "2006-01-02"
	// AppointmentDuration is the fixed length of a booked appointment.
	AppointmentDuration = 2 * time.Hour
)

// TimeSlot is one selectable start time.
type TimeSlot struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Period string `json:"period"`
}

// SlotPeriods is the display order of slot groups.
var SlotPeriods = []string{"Morning", "Afternoon", "Evening"}

// TimeSlots is the fixed list of bookable start times.
var TimeSlots = []TimeSlot{
	{Value: "09:00", Label: "9:00 AM", Period: "Morning"},
	{Value: "09:30", Label: "9:30 AM", Period: "Morning"},
	{Value: "10:00", Label: "10:00 AM", Period: "Morning"},
	{Value: "10:30", Label: "10:30 AM", Period: "Morning"},
	{Value: "11:00", Label: "11:00 AM", Period: "Morning"},
	{Value: "11:30", Label: "11:30 AM", Period: "Morning"},
	{Value: "14:00", Label: "2:00 PM", Period: "Afternoon"},
	{Value: "14:30", Label: "2:30 PM", Period: "Afternoon"},
	{Value: "15:00", Label: "3:00 PM", Period: "Afternoon"},
	{Value: "15:30", Label: "3:30 PM", Period: "Afternoon"},
	{Value: "16:00", Label: "4:00 PM", Period: "Afternoon"},
	{Value: "16:30", Label: "4:30 PM", Period: "Afternoon"},
	{Value: "17:00", Label: "5:00 PM", Period: "Evening"},
	{Value: "17:30", Label: "5:30 PM", Period: "Evening"},
	{Value: "18:00", Label: "6:00 PM", Period: "Evening"},
}

// FindTimeSlot looks a slot up by its "HH:MM" value.
func FindTimeSlot(value string) (TimeSlot, bool) {
	for _, s := range TimeSlots {
		if s.Value == value {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// DoctorChoice is what the doctor picker shows and commits.
type DoctorChoice struct {
	UserID         string `json:"user_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Specialization string `json:"specialization,omitempty"`
}

func (d DoctorChoice) DisplayName() string {
	return fmt.Sprintf("Dr. %s %s", d.FirstName, d.LastName)
}

// BookingForm holds the committed values of the booking form.
type BookingForm struct {
	Doctor *DoctorChoice `json:"doctor,omitempty"`
	Date   *string       `json:"date,omitempty"`
	Time   *TimeSlot     `json:"time,omitempty"`
}

// BookingDraft is the transient state of an open booking dialog.
type BookingDraft struct {
	Form         BookingForm          `json:"form"`
	DoctorPicker Wizard[DoctorChoice] `json:"doctor_picker"`
	DatePicker   Wizard[string]       `json:"date_picker"`
	TimePicker   Wizard[TimeSlot]     `json:"time_picker"`
}

// NewBookingDraft returns an empty draft with every picker closed.
func NewBookingDraft() *BookingDraft {
	return &BookingDraft{
		DoctorPicker: Wizard[DoctorChoice]{State: WizardClosed},
		DatePicker:   Wizard[string]{State: WizardClosed},
		TimePicker:   Wizard[TimeSlot]{State: WizardClosed},
	}
}

// Complete reports whether doctor, date and time are all committed.
func (f BookingForm) Complete() bool {
	return f.Doctor != nil && f.Date != nil && f.Time != nil
}

// TimeRange is a half-open [Start, End) interval.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// ParseDate parses a "YYYY-MM-DD" date at midnight in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return d, nil
}

// DateAvailable rejects dates before today in loc.
func DateAvailable(date string, now time.Time, loc *time.Location) error {
	d, err := ParseDate(date, loc)
	if err != nil {
		return err
	}
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	if d.Before(today) {
		return ErrDateUnavailable
	}
	return nil
}

// AppointmentWindow combines a date and a slot into the booked interval.
// The end is always AppointmentDuration after the start.
func AppointmentWindow(date string, slot TimeSlot, loc *time.Location) (TimeRange, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return TimeRange{}, err
	}
	var hour, minute int
	if _, err := fmt.Sscanf(slot.Value, "%d:%d", &hour, &minute); err != nil {
		return TimeRange{}, fmt.Errorf("%w: bad time slot %q", ErrValidation, slot.Value)
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
	return TimeRange{Start: start, End: start.Add(AppointmentDuration)}, nil
}

// SlotAvailability is a slot annotated for a given date.
type SlotAvailability struct {
	TimeSlot
	Available bool `json:"available"`
}

// AvailableSlots marks slots that already started or that overlap one of
// the doctor's booked ranges as unavailable.
func AvailableSlots(date string, now time.Time, loc *time.Location, booked []TimeRange) []SlotAvailability {
	out := make([]SlotAvailability, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		out = append(out, SlotAvailability{
			TimeSlot:  slot,
			Available: slotAvailable(date, slot, now, loc, booked),
		})
	}
	return out
}

// SlotAvailable reports whether slot can still be booked on date.
func SlotAvailable(date string, slot TimeSlot, now time.Time, loc *time.Location, booked []TimeRange) bool {
	return slotAvailable(date, slot, now, loc, booked)
}

func slotAvailable(date string, slot TimeSlot, now time.Time, loc *time.Location, booked []TimeRange) bool {
	window, err := AppointmentWindow(date, slot, loc)
	if err != nil {
		return false
	}
	if window.Start.Before(now) {
		return false
	}
	for _, b := range booked {
		if window.Overlaps(b) {
			return false
		}
	}
	return true
}

// SlotsByPeriod groups slots under their period label.
func SlotsByPeriod(slots []SlotAvailability) map[string][]SlotAvailability {
	grouped := make(map[string][]SlotAvailability, len(SlotPeriods))
	for _, s := range slots {
		grouped[s.Period] = append(grouped[s.Period], s)
	}
	return grouped
}
