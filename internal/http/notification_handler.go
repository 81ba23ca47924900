package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

type notificationService interface {
	ListForUser(ctx context.Context, userID int64) ([]persistence.Notification, error)
	MarkRead(ctx context.Context, id string, userID int64) error
}

type NotificationHandler struct {
	service   notificationService
	responder responder
}

func NewNotificationHandler(service notificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, responder: newResponder(logger)}
}

func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	notifications, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]notificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, toNotificationDTO(notification))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listNotificationsResponse{Notifications: out})
}

// MarkRead flags a notification as read. The requesting user is identified
// by the user_id query parameter.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := NotificationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidNotificationID)
		return
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("user_id")), 10, 64)
	if err != nil || userID <= 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	if err := h.service.MarkRead(r.Context(), id, userID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type notificationDTO struct {
	ID        string `json:"id"`
	UserID    int64  `json:"user_id"`
	RoomID    int64  `json:"room_id,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

type listNotificationsResponse struct {
	Notifications []notificationDTO `json:"notifications"`
}

func toNotificationDTO(notification persistence.Notification) notificationDTO {
	return notificationDTO{
		ID:        notification.ID,
		UserID:    notification.UserID,
		RoomID:    notification.RoomID,
		Message:   notification.Message,
		Timestamp: notification.Timestamp.UTC().Format(time.RFC3339Nano),
		Read:      notification.Read,
	}
}
