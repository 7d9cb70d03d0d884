package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartviz/smartviz-go/internal/model"
)

func TestSessionOpenAndClose(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	if err := repo.Open(ctx, "token-abc", 1, expires); err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}

	s, err := repo.Get(ctx, "token-abc")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if !s.Active {
		t.Error("new session should be active")
	}
	if s.UserID != 1 {
		t.Errorf("session user = %d, want 1", s.UserID)
	}

	if err := repo.Close(ctx, "token-abc"); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	s, err = repo.Get(ctx, "token-abc")
	if err != nil {
		t.Fatalf("Get() after close unexpected error: %v", err)
	}
	if s.Active {
		t.Error("closed session should be inactive")
	}
}

func TestSessionCloseUnknownIsNoop(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	if err := repo.Close(context.Background(), "never-issued"); err != nil {
		t.Errorf("Close() unknown session = %v, want nil", err)
	}
}

func TestSessionGetMissing(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	if _, err := repo.Get(context.Background(), "ghost"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() = %v, want ErrSessionNotFound", err)
	}
}

func TestRecordEventTruncatesPreview(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	userID := int64(7)
	longToken := "abcdefghijklmnopqrstuvwxyz0123456789"
	if err := repo.RecordEvent(ctx, &userID, "10.0.0.1", longToken, model.StatusLoginOK); err != nil {
		t.Fatalf("RecordEvent() unexpected error: %v", err)
	}

	events, err := repo.Events(ctx)
	if err != nil {
		t.Fatalf("Events() unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Events() len = %d, want 1", len(events))
	}
	e := events[0]
	if e.TokenPreview != longToken[:tokenPreviewLen] {
		t.Errorf("preview = %q, want %q", e.TokenPreview, longToken[:tokenPreviewLen])
	}
	if e.UserID == nil || *e.UserID != 7 {
		t.Errorf("event user = %v, want 7", e.UserID)
	}
	if e.Status != model.StatusLoginOK {
		t.Errorf("event status = %q, want %q", e.Status, model.StatusLoginOK)
	}
}

func TestRecordEventNilUser(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.RecordEvent(ctx, nil, "-", "invalid", model.StatusLoginFail); err != nil {
		t.Fatalf("RecordEvent() unexpected error: %v", err)
	}

	events, err := repo.Events(ctx)
	if err != nil {
		t.Fatalf("Events() unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].UserID != nil {
		t.Errorf("expected one unattributed event, got %+v", events)
	}
}
