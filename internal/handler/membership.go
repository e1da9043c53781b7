package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/service"
)

type MembershipHandler struct {
	memberships *service.MembershipService
	logger      *slog.Logger
}

func NewMembershipHandler(memberships *service.MembershipService, logger *slog.Logger) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, logger: logger}
}

// HandleList answers GET /api/memberships?user_id=|artist_id=. Exactly
// one of the two filters must be present — memberships are only reachable
// through their secondary indexes, never as a full scan.
func (h *MembershipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	artistID := q.Get("artist_id")

	switch {
	case userID != "" && artistID != "":
		writeError(w, apperror.ValidationFailed("user_id",
			"provide either user_id or artist_id, not both"))
	case userID != "":
		views, err := h.memberships.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	case artistID != "":
		views, err := h.memberships.ListByArtist(r.Context(), artistID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	default:
		writeError(w, apperror.ValidationFailed("user_id",
			"a user_id or artist_id filter is required"))
	}
}

func (h *MembershipHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	view, err := h.memberships.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *MembershipHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.MembershipInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	view, err := h.memberships.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *MembershipHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch service.MembershipPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	view, err := h.memberships.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *MembershipHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.memberships.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
