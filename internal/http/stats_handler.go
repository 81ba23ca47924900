package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/room-reservation/internal/application"
)

type statsService interface {
	PopularRooms(ctx context.Context) ([]application.RoomUsage, error)
}

type StatsHandler struct {
	service   statsService
	responder responder
}

func NewStatsHandler(service statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{service: service, responder: newResponder(logger)}
}

func (h *StatsHandler) PopularRooms(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	usage, err := h.service.PopularRooms(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]roomUsageDTO, 0, len(usage))
	for _, u := range usage {
		out = append(out, roomUsageDTO{Room: toRoomDTO(u.Room), Count: u.Count})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, popularRoomsResponse{Rooms: out})
}

type roomUsageDTO struct {
	Room  roomDTO `json:"room"`
	Count int     `json:"count"`
}

type popularRoomsResponse struct {
	Rooms []roomUsageDTO `json:"rooms"`
}
