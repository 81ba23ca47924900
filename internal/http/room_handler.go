package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/room-reservation/internal/persistence"
)

type roomCatalog interface {
	ListRooms(ctx context.Context) ([]persistence.Room, error)
}

// RoomHandler exposes the read-only room catalog.
type RoomHandler struct {
	catalog   roomCatalog
	responder responder
}

func NewRoomHandler(catalog roomCatalog, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{catalog: catalog, responder: newResponder(logger)}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.catalog == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms, err := h.catalog.ListRooms(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: out})
}

type roomDTO struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Capacity  int      `json:"capacity"`
	Equipment []string `json:"equipment"`
	Available bool     `json:"available"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{
		ID:        room.ID,
		Name:      room.Name,
		Location:  room.Location,
		Capacity:  room.Capacity,
		Equipment: append([]string(nil), room.Equipment...),
		Available: room.Available,
	}
}
