package domain

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := map[error]ErrorKind{
		ErrServiceUnavailable:         KindUnavailable,
		ErrUnauthorized:               KindUnauthorized,
		ErrConflict:                   KindConflict,
		ErrValidation:                 KindValidation,
		ErrNotFound:                   KindNotFound,
		ErrUpstream:                   KindUpstream,
		errors.New("boom"):            KindFailure,
		errors.Join(ErrConflict, nil): KindConflict,
	}
	for err, want := range cases {
		if got := Classify(err); got != want {
			t.Fatalf("%v: want %s, got %s", err, want, got)
		}
	}
}

type serviceMessage struct{ msg string }

func (e *serviceMessage) Error() string       { return "backend: " + e.msg }
func (e *serviceMessage) Unwrap() error       { return ErrConflict }
func (e *serviceMessage) UserMessage() string { return e.msg }

func TestWithFallbackMessage(t *testing.T) {
	err := WithFallbackMessage(ErrConflict, "Doctor not available.")
	var ue *UserError
	if !errors.As(err, &ue) || ue.Message != "Doctor not available." || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected the fallback message, got %v", err)
	}

	own := &serviceMessage{msg: "Dr. Chen is fully booked"}
	err = WithFallbackMessage(own, "Doctor not available.")
	if err != error(own) {
		t.Fatalf("a service message must be kept as is, got %v", err)
	}

	empty := &serviceMessage{}
	err = WithFallbackMessage(empty, "Doctor not available.")
	if !errors.As(err, &ue) || ue.Message != "Doctor not available." {
		t.Fatalf("an empty service message falls back, got %v", err)
	}

	if WithFallbackMessage(nil, "x") != nil {
		t.Fatalf("nil stays nil")
	}
}
