package domain

import (
	"errors"
	"testing"
)

func TestWizard_OpenSeedsFromCommitted(t *testing.T) {
	w := Wizard[string]{State: WizardClosed}
	committed := "2024-06-01"

	w.Open(&committed)
	if !w.IsOpen() {
		t.Fatalf("expected open")
	}
	if w.Tentative == nil || *w.Tentative != committed {
		t.Fatalf("tentative not seeded: %v", w.Tentative)
	}

	// tentative is a copy
	_ = w.Select("2024-06-02")
	if committed != "2024-06-01" {
		t.Fatalf("committed value changed by Select: %s", committed)
	}
}

func TestWizard_SelectWhenClosed(t *testing.T) {
	w := Wizard[int]{State: WizardClosed}
	if err := w.Select(3); !errors.Is(err, ErrWizardClosed) {
		t.Fatalf("expected ErrWizardClosed, got %v", err)
	}
	if w.Tentative != nil {
		t.Fatalf("tentative must stay empty")
	}
}

func TestWizard_ConfirmReturnsTentativeAndCloses(t *testing.T) {
	w := Wizard[int]{}
	w.Open(nil)
	_ = w.Select(1)
	_ = w.Select(2)

	v, ok, err := w.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !ok || v != 2 {
		t.Fatalf("expected (2, true), got (%d, %v)", v, ok)
	}
	if w.IsOpen() || w.Tentative != nil {
		t.Fatalf("wizard not reset: %+v", w)
	}
}

func TestWizard_ConfirmWithoutSelection(t *testing.T) {
	w := Wizard[int]{}
	w.Open(nil)

	_, ok, err := w.Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ok {
		t.Fatalf("expected no value when nothing was selected")
	}
	if w.IsOpen() {
		t.Fatalf("expected closed")
	}
}

func TestWizard_ConfirmWhenClosed(t *testing.T) {
	w := Wizard[int]{State: WizardClosed}
	if _, _, err := w.Confirm(); !errors.Is(err, ErrWizardClosed) {
		t.Fatalf("expected ErrWizardClosed, got %v", err)
	}
}

func TestWizard_CancelDiscards(t *testing.T) {
	committed := 5
	w := Wizard[int]{}
	w.Open(&committed)
	_ = w.Select(9)
	w.Cancel()

	if w.IsOpen() || w.Tentative != nil {
		t.Fatalf("cancel did not reset: %+v", w)
	}
	if committed != 5 {
		t.Fatalf("committed changed: %d", committed)
	}
}

func TestUserTypeDraft_CreateAndEditContexts(t *testing.T) {
	d := NewUserTypeDraft()
	if d.CreateType != RolePatient {
		t.Fatalf("create form should default to patient, got %s", d.CreateType)
	}

	if err := d.Open(UserTypeCreate); err != nil {
		t.Fatalf("open create: %v", err)
	}
	if d.Picker.Tentative == nil || *d.Picker.Tentative != RolePatient {
		t.Fatalf("create picker not seeded from form")
	}
	_ = d.Picker.Select(RoleNurse)
	if err := d.Confirm(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if d.CreateType != RoleNurse {
		t.Fatalf("create type not committed: %s", d.CreateType)
	}
	if d.EditType != nil {
		t.Fatalf("edit form must not change")
	}

	doctor := RoleDoctor
	d.EditType = &doctor
	if err := d.Open(UserTypeEdit); err != nil {
		t.Fatalf("open edit: %v", err)
	}
	if *d.Picker.Tentative != RoleDoctor {
		t.Fatalf("edit picker not seeded from edited user")
	}
	_ = d.Picker.Select(RoleAdministrator)
	d.Cancel()
	if *d.EditType != RoleDoctor {
		t.Fatalf("cancel must keep edit value, got %s", *d.EditType)
	}
	if d.CreateType != RoleNurse {
		t.Fatalf("cancel must keep create value, got %s", d.CreateType)
	}

	if err := d.Open("bogus"); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}
