package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medicare/portal/internal/core/domain"
)

func TestSessionRepository_DeleteReportsOnce(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()
	_ = repo.Save(ctx, &domain.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)})

	if removed, _ := repo.Delete(ctx, "s-1"); !removed {
		t.Fatalf("first delete must report true")
	}
	if removed, _ := repo.Delete(ctx, "s-1"); removed {
		t.Fatalf("second delete must report false")
	}
	if _, err := repo.Load(ctx, "s-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepository_ExpiredIsNotFound(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()
	_ = repo.Save(ctx, &domain.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Minute)})

	repo.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := repo.Load(ctx, "s-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDraftRepository_RoundTripAndIsolation(t *testing.T) {
	repo := NewDraftRepository(time.Hour)
	ctx := context.Background()

	draft := domain.NewBookingDraft()
	date := "2026-03-02"
	draft.Form.Date = &date
	if err := repo.Save(ctx, "s-1", "booking", draft); err != nil {
		t.Fatalf("save: %v", err)
	}

	// the stored copy does not alias the caller's value
	other := "2026-04-01"
	draft.Form.Date = &other

	var got domain.BookingDraft
	found, err := repo.Load(ctx, "s-1", "booking", &got)
	if err != nil || !found {
		t.Fatalf("expected a draft, got found=%v err=%v", found, err)
	}
	if got.Form.Date == nil || *got.Form.Date != "2026-03-02" {
		t.Fatalf("unexpected draft %+v", got.Form)
	}

	if found, _ := repo.Load(ctx, "s-2", "booking", &got); found {
		t.Fatalf("drafts are per session")
	}
}

func TestDraftRepository_DeleteAll(t *testing.T) {
	repo := NewDraftRepository(time.Hour)
	ctx := context.Background()
	_ = repo.Save(ctx, "s-1", "booking", domain.NewBookingDraft())
	_ = repo.Save(ctx, "s-1", "user_type", domain.NewUserTypeDraft())
	_ = repo.Save(ctx, "s-10", "booking", domain.NewBookingDraft())

	if err := repo.DeleteAll(ctx, "s-1"); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	var d domain.BookingDraft
	if found, _ := repo.Load(ctx, "s-1", "booking", &d); found {
		t.Fatalf("booking draft of s-1 must be gone")
	}
	var u domain.UserTypeDraft
	if found, _ := repo.Load(ctx, "s-1", "user_type", &u); found {
		t.Fatalf("user type draft of s-1 must be gone")
	}
	if found, _ := repo.Load(ctx, "s-10", "booking", &d); !found {
		t.Fatalf("a session sharing the id prefix must keep its draft")
	}
}

func TestDraftRepository_Expires(t *testing.T) {
	repo := NewDraftRepository(time.Minute)
	ctx := context.Background()
	_ = repo.Save(ctx, "s-1", "booking", domain.NewBookingDraft())

	repo.now = func() time.Time { return time.Now().Add(time.Hour) }
	var d domain.BookingDraft
	if found, _ := repo.Load(ctx, "s-1", "booking", &d); found {
		t.Fatalf("an expired draft must not be returned")
	}
}
