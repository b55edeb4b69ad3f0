package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTimeSlots_Layout(t *testing.T) {
	if len(TimeSlots) != 15 {
		t.Fatalf("expected 15 slots, got %d", len(TimeSlots))
	}
	if TimeSlots[0].Value != "09:00" || TimeSlots[len(TimeSlots)-1].Value != "18:00" {
		t.Fatalf("unexpected range %s..%s", TimeSlots[0].Value, TimeSlots[len(TimeSlots)-1].Value)
	}
	grouped := SlotsByPeriod(AvailableSlots("2030-01-01", time.Time{}, time.UTC, nil))
	if len(grouped["Morning"]) != 6 || len(grouped["Afternoon"]) != 6 || len(grouped["Evening"]) != 3 {
		t.Fatalf("unexpected grouping: %d/%d/%d", len(grouped["Morning"]), len(grouped["Afternoon"]), len(grouped["Evening"]))
	}
}

func TestAppointmentWindow_TwoHours(t *testing.T) {
	slot, _ := FindTimeSlot("14:30")
	loc := time.FixedZone("UTC+7", 7*3600)

	w, err := AppointmentWindow("2024-06-01", slot, loc)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	want := time.Date(2024, 6, 1, 14, 30, 0, 0, loc)
	if !w.Start.Equal(want) {
		t.Fatalf("start: want %v, got %v", want, w.Start)
	}
	if w.End.Sub(w.Start) != 2*time.Hour {
		t.Fatalf("duration: %v", w.End.Sub(w.Start))
	}
	if w.Start.UTC().Hour() != 7 {
		t.Fatalf("start must be interpreted in the configured zone, got %v", w.Start.UTC())
	}
}

func TestAppointmentWindow_BadDate(t *testing.T) {
	slot, _ := FindTimeSlot("09:00")
	if _, err := AppointmentWindow("01/06/2024", slot, time.UTC); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDateAvailable(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)

	cases := []struct {
		date string
		want error
	}{
		{"2024-05-31", ErrDateUnavailable},
		{"2024-06-01", nil},
		{"2024-06-02", nil},
	}
	for _, tc := range cases {
		if err := DateAvailable(tc.date, now, time.UTC); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %v, got %v", tc.date, tc.want, err)
		}
	}
}

func TestAvailableSlots_PastAndBooked(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 15, 0, 0, time.UTC)
	booked := []TimeRange{{
		Start: time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC),
	}}

	unavailable := map[string]bool{
		"09:00": true, "09:30": true, "10:00": true,
		"14:00": true, "14:30": true, "15:00": true, "15:30": true,
	}
	for _, s := range AvailableSlots("2024-06-01", now, time.UTC, booked) {
		if s.Available == unavailable[s.Value] {
			t.Fatalf("slot %s: available=%v", s.Value, s.Available)
		}
	}

	// a future date ignores the clock
	for _, s := range AvailableSlots("2024-06-02", now, time.UTC, nil) {
		if !s.Available {
			t.Fatalf("slot %s on a future day should be available", s.Value)
		}
	}
}

func TestBookingForm_Complete(t *testing.T) {
	d := NewBookingDraft()
	if d.Form.Complete() {
		t.Fatalf("empty form reported complete")
	}
	date := "2024-06-01"
	slot, _ := FindTimeSlot("09:00")
	d.Form.Doctor = &DoctorChoice{UserID: "doc-1"}
	d.Form.Date = &date
	if d.Form.Complete() {
		t.Fatalf("form without time reported complete")
	}
	d.Form.Time = &slot
	if !d.Form.Complete() {
		t.Fatalf("expected complete form")
	}
}
