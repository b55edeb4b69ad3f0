package domain

// WizardState is the open/closed half of a selection dialog's state.
type WizardState string

const (
	WizardClosed WizardState = "closed"
	WizardOpen   WizardState = "open"
)

// Wizard is a modal picker that keeps a tentative choice apart from the
// committed form value. The owning form only changes through Confirm.
//
//	Closed → Open(tentative=committed) → Open(tentative=X) → Closed
type Wizard[T any] struct {
	State     WizardState `json:"state"`
	Tentative *T          `json:"tentative,omitempty"`
}

// IsOpen reports whether the dialog is showing.
func (w *Wizard[T]) IsOpen() bool {
	return w.State == WizardOpen
}

// Open shows the dialog, seeding the tentative value from committed.
func (w *Wizard[T]) Open(committed *T) {
	w.State = WizardOpen
	w.Tentative = nil
	if committed != nil {
		v := *committed
		w.Tentative = &v
	}
}

// Select changes the tentative value only.
func (w *Wizard[T]) Select(v T) error {
	if !w.IsOpen() {
		return ErrWizardClosed
	}
	w.Tentative = &v
	return nil
}

// Confirm closes the dialog and hands back the tentative value for the
// owner to commit. ok is false when nothing was selected, in which case the
// committed value must stay as it was.
func (w *Wizard[T]) Confirm() (value T, ok bool, err error) {
	if !w.IsOpen() {
		return value, false, ErrWizardClosed
	}
	if w.Tentative != nil {
		value, ok = *w.Tentative, true
	}
	w.reset()
	return value, ok, nil
}

// Cancel closes the dialog and drops the tentative value.
func (w *Wizard[T]) Cancel() {
	w.reset()
}

func (w *Wizard[T]) reset() {
	w.State = WizardClosed
	w.Tentative = nil
}

// WizardAction is one of the dialog transitions exposed over HTTP.
type WizardAction string

const (
	ActionOpen    WizardAction = "open"
	ActionSelect  WizardAction = "select"
	ActionConfirm WizardAction = "confirm"
	ActionCancel  WizardAction = "cancel"
)
