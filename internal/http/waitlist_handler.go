package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/persistence"
	"github.com/example/room-reservation/internal/timeslot"
)

type waitlistService interface {
	Join(ctx context.Context, input application.JoinWaitlistInput) (persistence.WaitlistEntry, error)
	Cancel(ctx context.Context, id string, userID int64) error
	ListForUser(ctx context.Context, userID int64) ([]persistence.WaitlistEntry, error)
}

type WaitlistHandler struct {
	service   waitlistService
	responder responder
}

func NewWaitlistHandler(service waitlistService, logger *slog.Logger) *WaitlistHandler {
	return &WaitlistHandler{service: service, responder: newResponder(logger)}
}

func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req waitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	entry, err := h.service.Join(r.Context(), application.JoinWaitlistInput{
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		Date:      strings.TrimSpace(req.Date),
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toWaitlistDTO(entry))
}

// Cancel removes a waitlist entry. The requesting user is identified by
// the user_id query parameter; only the entry's owner may remove it.
func (h *WaitlistHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("user_id")), 10, 64)
	if err != nil || userID <= 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	if err := h.service.Cancel(r.Context(), id, userID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *WaitlistHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	entries, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]waitlistDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toWaitlistDTO(entry))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listWaitlistResponse{Entries: out})
}

type waitlistRequest struct {
	RoomID    int64  `json:"room_id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type waitlistDTO struct {
	ID        string `json:"id"`
	RoomID    int64  `json:"room_id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	CreatedAt string `json:"created_at"`
}

type listWaitlistResponse struct {
	Entries []waitlistDTO `json:"entries"`
}

func toWaitlistDTO(entry persistence.WaitlistEntry) waitlistDTO {
	return waitlistDTO{
		ID:        entry.ID,
		RoomID:    entry.RoomID,
		UserID:    entry.UserID,
		Date:      entry.Date,
		StartTime: timeslot.FormatClock(entry.StartMinute),
		EndTime:   timeslot.FormatClock(entry.EndMinute),
		CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
