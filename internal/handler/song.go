package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bandhub/backstage/internal/service"
)

type SongHandler struct {
	songs  *service.SongService
	logger *slog.Logger
}

func NewSongHandler(songs *service.SongService, logger *slog.Logger) *SongHandler {
	return &SongHandler{songs: songs, logger: logger}
}

// HandleList answers GET /api/songs with an optional ?tag= equality
// filter.
func (h *SongHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context(), r.URL.Query().Get("tag"), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *SongHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	song, err := h.songs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (h *SongHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.SongInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	song, err := h.songs.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (h *SongHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch service.SongPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	song, err := h.songs.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (h *SongHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.songs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
