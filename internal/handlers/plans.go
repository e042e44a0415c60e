package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/repository"
	"ouroboros-backend/internal/services"
)

type PlanHandler struct {
	repo    *repository.PlanRepo
	planner *services.PlannerService
}

func NewPlanHandler(repo *repository.PlanRepo, planner *services.PlannerService) *PlanHandler {
	return &PlanHandler{repo: repo, planner: planner}
}

type planRequest struct {
	Name     string     `json:"name"`
	ExamDate *time.Time `json:"exam_date"`
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name is required", r))
		return
	}

	plan := &models.Plan{UserID: userID, Name: req.Name, ExamDate: req.ExamDate}
	planning := &models.PlanningRecord{Settings: models.DefaultPlanSettings()}
	if err := h.repo.Create(r.Context(), plan, planning); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create plan", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"plan": plan})
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	plans, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list plans", r))
		return
	}
	if plans == nil {
		plans = []*models.Plan{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	plan, err := h.repo.GetByID(r.Context(), planID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Plan not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load plan", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"plan": plan})
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name is required", r))
		return
	}

	plan := &models.Plan{ID: planID, UserID: userID, Name: req.Name, ExamDate: req.ExamDate}
	if err := h.repo.Update(r.Context(), plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Plan not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update plan", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"plan": plan})
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	if err := h.repo.Delete(r.Context(), planID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Plan not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete plan", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Plan deleted"})
}

func (h *PlanHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	planning, err := h.planner.Planning(r.Context(), userID, planID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": planning.Settings})
}

func (h *PlanHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	var settings models.PlanSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	planning, err := h.planner.SaveSettings(r.Context(), userID, planID, settings)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"settings": planning.Settings})
}
