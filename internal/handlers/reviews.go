package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/repository"
)

type ReviewHandler struct {
	repo *repository.ReviewRepo
}

func NewReviewHandler(repo *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{repo: repo}
}

// List returns the plan's reviews; ?due=true narrows to pending reviews
// scheduled up to today.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	var dueBefore *time.Time
	if r.URL.Query().Get("due") == "true" {
		now := time.Now()
		endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		dueBefore = &endOfDay
	}

	reviews, err := h.repo.ListByPlan(r.Context(), planID, userID, dueBefore)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list reviews", r))
		return
	}
	if reviews == nil {
		reviews = []*models.ReviewRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (h *ReviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ReviewCompleted)
}

func (h *ReviewHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, models.ReviewSkipped)
}

func (h *ReviewHandler) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	userID := middleware.GetUserID(r.Context())
	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid review ID", r))
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), reviewID, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Review not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update review", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Review " + status})
}
