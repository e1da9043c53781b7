package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"strconv"

	"github.com/bandhub/backstage/internal/service"
)

// VenueHandler exposes CRUD over venues.
type VenueHandler struct {
	venues *service.VenueService
	logger *slog.Logger
}

func NewVenueHandler(venues *service.VenueService, logger *slog.Logger) *VenueHandler {
	return &VenueHandler{venues: venues, logger: logger}
}

// HandleList answers GET /api/venues. Venues without coordinates are
// excluded by the storage layer.
func (h *VenueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	venues, err := h.venues.List(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, venues)
}

// HandleGetByID answers GET /api/venues/{id}.
func (h *VenueHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	venue, err := h.venues.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

// HandleCreate answers POST /api/venues.
func (h *VenueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.VenueInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	venue, err := h.venues.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, venue)
}

// HandleUpdate answers PUT /api/venues/{id} with partial-merge semantics:
// only fields present in the body change.
func (h *VenueHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch service.VenuePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	venue, err := h.venues.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, venue)
}

// HandleDelete answers DELETE /api/venues/{id}. Unknown ids get a 404;
// deleting twice is the same 404, never a server error.
func (h *VenueHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.venues.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryLimit parses the optional ?limit= parameter; zero means the
// store's default page size.
func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
