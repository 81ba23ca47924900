package http

import (
	"net/http"
	"strconv"
	"strings"
)

type RouterConfig struct {
	Reservations  *ReservationHandler
	Waitlist      *WaitlistHandler
	Notifications *NotificationHandler
	Rooms         *RoomHandler
	Stats         *StatsHandler
	Middleware    []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Reservations != nil {
		mux.HandleFunc("/reservations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Reservations.Create(w, r)
		})
		mux.HandleFunc("/reservations/user/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			userID, ok := trailingInt64(r.URL.Path, "/reservations/user/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			cfg.Reservations.ListForUser(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
		mux.HandleFunc("/reservations/room/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			roomID, ok := trailingInt64(r.URL.Path, "/reservations/room/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			cfg.Reservations.ListForRoom(w, r.WithContext(ContextWithRoomID(r.Context(), roomID)))
		})
		mux.HandleFunc("/reservations/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/reservations/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Reservations.Cancel(w, r.WithContext(ContextWithReservationID(r.Context(), id)))
		})
	}

	if cfg.Waitlist != nil {
		mux.HandleFunc("/waitlist", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Waitlist.Join(w, r)
		})
		mux.HandleFunc("/waitlist/user/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			userID, ok := trailingInt64(r.URL.Path, "/waitlist/user/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			cfg.Waitlist.ListForUser(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
		mux.HandleFunc("/waitlist/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/waitlist/")
			if id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Waitlist.Cancel(w, r.WithContext(ContextWithEntryID(r.Context(), id)))
		})
	}

	if cfg.Notifications != nil {
		mux.HandleFunc("/notifications/user/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			userID, ok := trailingInt64(r.URL.Path, "/notifications/user/")
			if !ok {
				http.NotFound(w, r)
				return
			}
			cfg.Notifications.ListForUser(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
		mux.HandleFunc("/notifications/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/notifications/")
			id, found := strings.CutSuffix(rest, "/read")
			if !found || id == "" || strings.Contains(id, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPatch {
				methodNotAllowed(w, http.MethodPatch)
				return
			}
			cfg.Notifications.MarkRead(w, r.WithContext(ContextWithNotificationID(r.Context(), id)))
		})
	}

	if cfg.Rooms != nil {
		mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Rooms.List(w, r)
		})
	}

	if cfg.Stats != nil {
		mux.HandleFunc("/stats/popular-rooms", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Stats.PopularRooms(w, r)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func trailingInt64(path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
