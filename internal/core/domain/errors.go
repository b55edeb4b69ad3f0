package domain

import "errors"

// Upstream failure taxonomy. Gateway errors wrap exactly one of these.
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrUpstream           = errors.New("upstream failure")
	ErrNotFound           = errors.New("not found")
)

// Portal-local errors.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("invalid session token")
	ErrForbiddenRole      = errors.New("role not allowed for this view")
	ErrInvalidRole        = errors.New("invalid user type")
	ErrWizardClosed       = errors.New("selection dialog is not open")
	ErrUnknownOption      = errors.New("unknown option")
	ErrDateUnavailable    = errors.New("date is not available")
	ErrSlotUnavailable    = errors.New("time slot is not available")
	ErrIncompleteBooking  = errors.New("please select doctor, date and time for the appointment")
	ErrMissingParameters  = errors.New("please add at least one test parameter")
	ErrMissingValues      = errors.New("please enter values for all test parameters")
	ErrEmptyMessage       = errors.New("message is empty")
)

// ErrorKind is the user-facing classification of a failure.
type ErrorKind string

const (
	KindUnavailable  ErrorKind = "unavailable"
	KindUnauthorized ErrorKind = "unauthorized"
	KindConflict     ErrorKind = "conflict"
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindUpstream     ErrorKind = "upstream"
	KindFailure      ErrorKind = "failure"
)

// Classify maps err onto the taxonomy. Anything unrecognised is a failure.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrServiceUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	default:
		return KindFailure
	}
}

// UserError attaches the message shown to the user to an underlying error.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message + ": " + e.Err.Error() }

func (e *UserError) Unwrap() error { return e.Err }

// WithMessage wraps err so the user sees msg instead of the raw cause.
func WithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &UserError{Message: msg, Err: err}
}

// WithFallbackMessage is WithMessage unless err already carries a message
// from the service that produced it, in which case that one is shown.
func WithFallbackMessage(err error, msg string) error {
	var m interface{ UserMessage() string }
	if errors.As(err, &m) && m.UserMessage() != "" {
		return err
	}
	return WithMessage(err, msg)
}
