package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/rest"
)

func (c controller) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := rest.WriteJSON(w, http.StatusOK, rest.Envelope{"status": "ok"}); err != nil {
		c.logger.InfoContext(r.Context(), "failed to write response", "error", err)
	}
}

func (c controller) GetRoom(w http.ResponseWriter, r *http.Request) {
	snapshot, err := c.roomService.GetRoomSnapshot(r.Context(), chi.URLParam(r, "room-id"))
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}

		c.logger.InfoContext(r.Context(), "failed to get room snapshot", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
		return
	}

	if err := rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": snapshot}); err != nil {
		c.logger.InfoContext(r.Context(), "failed to write response", "error", err)
	}
}

func (c controller) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.roomService.Stats(r.Context())
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to get stats", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
		return
	}

	if err := rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": stats}); err != nil {
		c.logger.InfoContext(r.Context(), "failed to write response", "error", err)
	}
}
