package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/repository"
)

type JobHandler struct {
	repo *repository.JobRepo
}

func NewJobHandler(repo *repository.JobRepo) *JobHandler {
	return &JobHandler{repo: repo}
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.repo.GetByID(r.Context(), jobID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load job", r))
		return
	}
	if job.UserID != userID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Job belongs to another user", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job})
}
