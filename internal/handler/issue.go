package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/auth"
	"github.com/bandhub/backstage/internal/repository"
	"github.com/bandhub/backstage/internal/service"
)

type IssueHandler struct {
	issues *service.IssueService
	logger *slog.Logger
}

func NewIssueHandler(issues *service.IssueService, logger *slog.Logger) *IssueHandler {
	return &IssueHandler{issues: issues, logger: logger}
}

// HandleList answers GET /api/issues with optional ?status=, ?priority=,
// ?type= equality filters.
func (h *IssueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	issues, err := h.issues.List(r.Context(), repository.IssueFilter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Type:     q.Get("type"),
		Limit:    queryLimit(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

func (h *IssueHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	issue, err := h.issues.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// HandleCreate answers POST /api/issues. The session user is recorded as
// the reporter.
func (h *IssueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized(""))
		return
	}

	var in service.IssueInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	issue, err := h.issues.Create(r.Context(), claims.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, issue)
}

func (h *IssueHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch service.IssuePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	issue, err := h.issues.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

func (h *IssueHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.issues.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type issueBatchRequest struct {
	IssueIDs []string `json:"issue_ids"`
	Status   string   `json:"status"`
}

// HandleBatchUpdate answers POST /api/issues/batch. Items are processed
// independently; the response carries both the updated issues and a
// per-item error list, with a 200 as long as the batch itself was valid.
func (h *IssueHandler) HandleBatchUpdate(w http.ResponseWriter, r *http.Request) {
	var req issueBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.issues.BatchUpdateStatus(r.Context(), req.IssueIDs, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
