package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/auth"
	"github.com/bandhub/backstage/internal/service"
)

type ArtistHandler struct {
	artists *service.ArtistService
	logger  *slog.Logger
}

func NewArtistHandler(artists *service.ArtistService, logger *slog.Logger) *ArtistHandler {
	return &ArtistHandler{artists: artists, logger: logger}
}

func (h *ArtistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artists.List(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (h *ArtistHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	artist, err := h.artists.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// HandleCreate answers POST /api/artists. The session user becomes the
// artist's owner, and an owner membership is written alongside the
// artist record.
func (h *ArtistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(""))
		return
	}

	var in service.ArtistInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	artist, err := h.artists.Create(r.Context(), claims.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (h *ArtistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch service.ArtistPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	artist, err := h.artists.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (h *ArtistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.artists.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
