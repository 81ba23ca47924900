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

type reservationService interface {
	Create(ctx context.Context, input application.CreateReservationInput) (persistence.Reservation, error)
	Cancel(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID int64) ([]persistence.Reservation, error)
	ListForRoom(ctx context.Context, roomID int64, date string) ([]application.ReservationWithOwner, error)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	reservation, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toReservationDTO(reservation))
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := ReservationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	if err := h.service.Cancel(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ReservationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidUserID)
		return
	}

	reservations, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{
		Reservations: toReservationDTOs(reservations),
	})
}

func (h *ReservationHandler) ListForRoom(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	reservations, err := h.service.ListForRoom(r.Context(), roomID, date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]roomReservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, roomReservationDTO{
			reservationDTO: toReservationDTO(reservation.Reservation),
			OwnerName:      reservation.OwnerName,
			OwnerEmail:     reservation.OwnerEmail,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomReservationsResponse{Reservations: out})
}

type reservationRequest struct {
	RoomID       int64  `json:"room_id"`
	UserID       int64  `json:"user_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Purpose      string `json:"purpose"`
	Participants []any  `json:"participants"`
}

func (r reservationRequest) toInput() application.CreateReservationInput {
	return application.CreateReservationInput{
		RoomID:       r.RoomID,
		OwnerID:      r.UserID,
		Date:         strings.TrimSpace(r.Date),
		StartTime:    strings.TrimSpace(r.StartTime),
		EndTime:      strings.TrimSpace(r.EndTime),
		Purpose:      r.Purpose,
		Participants: flattenParticipants(r.Participants),
	}
}

// flattenParticipants accepts the mixed participant array: numbers are
// member user IDs, strings are free-text guests.
func flattenParticipants(raw []any) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		switch v := value.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatInt(int64(v), 10))
		}
	}
	return out
}

type reservationDTO struct {
	ID           string `json:"id"`
	RoomID       int64  `json:"room_id"`
	UserID       int64  `json:"user_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Purpose      string `json:"purpose,omitempty"`
	Location     string `json:"location,omitempty"`
	Participants []any  `json:"participants"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	CancelledAt  string `json:"cancelled_at,omitempty"`
}

type roomReservationDTO struct {
	reservationDTO
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
}

type listReservationsResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type listRoomReservationsResponse struct {
	Reservations []roomReservationDTO `json:"reservations"`
}

func toReservationDTO(reservation persistence.Reservation) reservationDTO {
	participants := make([]any, 0, len(reservation.Participants))
	for _, p := range reservation.Participants {
		if p.Member() {
			participants = append(participants, p.UserID)
		} else {
			participants = append(participants, p.Label)
		}
	}

	dto := reservationDTO{
		ID:           reservation.ID,
		RoomID:       reservation.RoomID,
		UserID:       reservation.OwnerID,
		Date:         reservation.Date,
		StartTime:    timeslot.FormatClock(reservation.StartMinute),
		EndTime:      timeslot.FormatClock(reservation.EndMinute),
		Purpose:      reservation.Purpose,
		Location:     reservation.Location,
		Participants: participants,
		Status:       string(reservation.Status),
		CreatedAt:    reservation.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if reservation.CancelledAt != nil {
		dto.CancelledAt = reservation.CancelledAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

func toReservationDTOs(reservations []persistence.Reservation) []reservationDTO {
	if len(reservations) == 0 {
		return nil
	}
	out := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationDTO(reservation))
	}
	return out
}
