package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/events"
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/persistence/memory"
)

type testServer struct {
	store   *memory.Store
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.Open()
	store.SeedRooms(persistence.DefaultRooms())
	store.SeedUsers([]persistence.User{
		{ID: 10, Name: "Alice Moore", Email: "alice@example.edu", Role: "student"},
		{ID: 11, Name: "Ben Carter", Email: "ben@example.edu", Role: "student"},
	})

	now := func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	counter := 0
	ids := func() string {
		counter++
		return fmt.Sprintf("id-%d", counter)
	}

	locks := booking.NewRoomLocks()
	waitlist := application.NewWaitlistService(store, store, store, store, locks, ids, now, nil)
	reservations := application.NewReservationService(store, waitlist, store, store, events.NopSink{}, locks, ids, now, nil)
	notifications := application.NewNotificationService(store, nil)
	stats := application.NewStatsService(store, store)

	handler := NewRouter(RouterConfig{
		Reservations:  NewReservationHandler(reservations, nil),
		Waitlist:      NewWaitlistHandler(waitlist, nil),
		Notifications: NewNotificationHandler(notifications, nil),
		Rooms:         NewRoomHandler(store, nil),
		Stats:         NewStatsHandler(stats, nil),
	})

	return &testServer{store: store, handler: handler}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(recorder.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", recorder.Body.String(), err)
	}
	return out
}

func createBody() map[string]any {
	return map[string]any{
		"room_id":    1,
		"user_id":    10,
		"date":       "2026-03-15",
		"start_time": "10:00",
		"end_time":   "11:00",
		"purpose":    "Study group",
	}
}

func TestReservationEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("create returns the stored reservation", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		body := createBody()
		body["participants"] = []any{11, "Guest speaker"}
		recorder := server.do(t, http.MethodPost, "/reservations", body)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}

		created := decodeBody[map[string]any](t, recorder)
		if created["status"] != "confirmed" || created["start_time"] != "10:00" {
			t.Errorf("unexpected payload: %v", created)
		}
		participants, _ := created["participants"].([]any)
		if len(participants) != 2 {
			t.Errorf("expected mixed participant array, got %v", created["participants"])
		}
	})

	t.Run("create rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewReader([]byte("{not json")))
		recorder := httptest.NewRecorder()
		server.handler.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("create maps validation failures to 422", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		recorder := server.do(t, http.MethodPost, "/reservations", map[string]any{"room_id": 1})
		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", recorder.Code, recorder.Body.String())
		}
		payload := decodeBody[map[string]any](t, recorder)
		if payload["errors"] == nil {
			t.Errorf("expected field errors, got %v", payload)
		}
	})

	t.Run("create maps a taken slot to 409", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		if recorder := server.do(t, http.MethodPost, "/reservations", createBody()); recorder.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d", recorder.Code)
		}
		body := createBody()
		body["user_id"] = 11
		recorder := server.do(t, http.MethodPost, "/reservations", body)
		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", recorder.Code, recorder.Body.String())
		}
		payload := decodeBody[map[string]any](t, recorder)
		if payload["error_code"] != "slot_taken" {
			t.Errorf("expected slot_taken error code, got %v", payload)
		}
	})

	t.Run("cancel flips the reservation and frees the slot", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		created := decodeBody[map[string]any](t, server.do(t, http.MethodPost, "/reservations", createBody()))
		id, _ := created["id"].(string)

		recorder := server.do(t, http.MethodDelete, "/reservations/"+id, nil)
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", recorder.Code, recorder.Body.String())
		}

		// Cancelling twice yields 404.
		recorder = server.do(t, http.MethodDelete, "/reservations/"+id, nil)
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404 on repeat cancel, got %d", recorder.Code)
		}
	})

	t.Run("user listing includes cancelled reservations", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		created := decodeBody[map[string]any](t, server.do(t, http.MethodPost, "/reservations", createBody()))
		id, _ := created["id"].(string)
		server.do(t, http.MethodDelete, "/reservations/"+id, nil)

		recorder := server.do(t, http.MethodGet, "/reservations/user/10", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		payload := decodeBody[map[string][]map[string]any](t, recorder)
		if len(payload["reservations"]) != 1 || payload["reservations"][0]["status"] != "cancelled" {
			t.Errorf("unexpected listing: %v", payload)
		}
	})

	t.Run("room listing enriches with the owner", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		server.do(t, http.MethodPost, "/reservations", createBody())
		recorder := server.do(t, http.MethodGet, "/reservations/room/1?date=2026-03-15", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		payload := decodeBody[map[string][]map[string]any](t, recorder)
		if len(payload["reservations"]) != 1 || payload["reservations"][0]["owner_name"] != "Alice Moore" {
			t.Errorf("unexpected listing: %v", payload)
		}
	})

	t.Run("rejects unsupported methods", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		recorder := server.do(t, http.MethodGet, "/reservations", nil)
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
	})
}

func TestWaitlistEndpoints(t *testing.T) {
	t.Parallel()

	joinBody := func() map[string]any {
		return map[string]any{
			"room_id":    1,
			"user_id":    11,
			"date":       "2026-03-15",
			"start_time": "10:00",
			"end_time":   "11:00",
		}
	}

	t.Run("join an open slot is a conflict", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		recorder := server.do(t, http.MethodPost, "/waitlist", joinBody())
		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", recorder.Code, recorder.Body.String())
		}
		payload := decodeBody[map[string]any](t, recorder)
		if payload["error_code"] != "slot_open" {
			t.Errorf("expected slot_open error code, got %v", payload)
		}
	})

	t.Run("join, list and cancel", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		server.do(t, http.MethodPost, "/reservations", createBody())
		recorder := server.do(t, http.MethodPost, "/waitlist", joinBody())
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		entry := decodeBody[map[string]any](t, recorder)
		id, _ := entry["id"].(string)

		listed := decodeBody[map[string][]map[string]any](t, server.do(t, http.MethodGet, "/waitlist/user/11", nil))
		if len(listed["entries"]) != 1 {
			t.Fatalf("expected 1 entry, got %v", listed)
		}

		// A foreign user cannot remove the entry.
		if recorder := server.do(t, http.MethodDelete, "/waitlist/"+id+"?user_id=10", nil); recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign cancel, got %d", recorder.Code)
		}
		if recorder := server.do(t, http.MethodDelete, "/waitlist/"+id+"?user_id=11", nil); recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
	})

	t.Run("cancel requires a user ID", func(t *testing.T) {
		t.Parallel()
		server := newTestServer(t)

		recorder := server.do(t, http.MethodDelete, "/waitlist/some-id", nil)
		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})
}

func TestNotificationEndpoints(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	ctx := context.Background()
	server.store.CreateNotification(ctx, persistence.Notification{
		ID: "n1", UserID: 10, Message: "hello",
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	})

	recorder := server.do(t, http.MethodGet, "/notifications/user/10", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	payload := decodeBody[map[string][]map[string]any](t, recorder)
	if len(payload["notifications"]) != 1 {
		t.Fatalf("expected 1 notification, got %v", payload)
	}

	if recorder := server.do(t, http.MethodPatch, "/notifications/n1/read?user_id=10", nil); recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if recorder := server.do(t, http.MethodPatch, "/notifications/missing/read?user_id=10", nil); recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestRoomAndStatsEndpoints(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	recorder := server.do(t, http.MethodGet, "/rooms", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	rooms := decodeBody[map[string][]map[string]any](t, recorder)
	if len(rooms["rooms"]) != len(persistence.DefaultRooms()) {
		t.Fatalf("expected full catalog, got %d rooms", len(rooms["rooms"]))
	}

	server.do(t, http.MethodPost, "/reservations", createBody())
	recorder = server.do(t, http.MethodGet, "/stats/popular-rooms", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	stats := decodeBody[map[string][]map[string]any](t, recorder)
	if len(stats["rooms"]) != 1 {
		t.Fatalf("expected one ranked room, got %v", stats)
	}
}
