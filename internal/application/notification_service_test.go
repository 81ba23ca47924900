package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/memory"
)

func TestNotificationService_ListForUser_NewestFirst(t *testing.T) {
	t.Parallel()

	store := memory.Open()
	svc := NewNotificationService(store, nil)
	ctx := context.Background()

	base := fixedNow()
	store.CreateNotification(ctx, persistence.Notification{ID: "n1", UserID: 10, Message: "older", Timestamp: base})
	store.CreateNotification(ctx, persistence.Notification{ID: "n2", UserID: 10, Message: "newer", Timestamp: base.Add(time.Minute)})
	store.CreateNotification(ctx, persistence.Notification{ID: "n3", UserID: 11, Message: "other user", Timestamp: base})

	notifications, err := svc.ListForUser(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	if notifications[0].Message != "newer" {
		t.Errorf("expected newest first, got %q", notifications[0].Message)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Parallel()

	store := memory.Open()
	svc := NewNotificationService(store, nil)
	ctx := context.Background()

	store.CreateNotification(ctx, persistence.Notification{ID: "n1", UserID: 10, Message: "hello", Timestamp: fixedNow()})

	if err := svc.MarkRead(ctx, "n1", 10); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	stored, err := store.GetNotification(ctx, "n1")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !stored.Read {
		t.Error("expected notification marked read")
	}

	// Marking again is a quiet no-op.
	if err := svc.MarkRead(ctx, "n1", 10); err != nil {
		t.Fatalf("repeat mark read failed: %v", err)
	}

	if err := svc.MarkRead(ctx, "n1", 11); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}
	if err := svc.MarkRead(ctx, "missing", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown notification, got %v", err)
	}
}
