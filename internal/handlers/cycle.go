package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ouroboros-backend/internal/cycle"
	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/services"
)

// CycleHandler exposes the cycle engine: recommendations, generation,
// manual session edits, and the progress snapshot.
type CycleHandler struct {
	planner *services.PlannerService
}

func NewCycleHandler(planner *services.PlannerService) *CycleHandler {
	return &CycleHandler{planner: planner}
}

func (h *CycleHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	scores, err := h.planner.Recommendations(r.Context(), userID, planID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if scores == nil {
		scores = []cycle.TopicScore{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recommendations": scores})
}

// Generate builds a new cycle from the posted settings. Empty-result
// conditions come back as 200 with an empty cycle and a warning so the
// frontend can surface them without an error page.
func (h *CycleHandler) Generate(w http.ResponseWriter, r *http.Request) {
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

	planning, err := h.planner.Generate(r.Context(), userID, planID, settings)
	if advisory, ok := err.(*services.AdvisoryError); ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"cycle":   []cycle.StudySession{},
			"warning": advisory.Message,
		})
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"cycle":    planning.Cycle,
		"progress": planning.Progress,
		"settings": planning.Settings,
	})
}

func (h *CycleHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	sessions := planning.Cycle
	if sessions == nil {
		sessions = []cycle.StudySession{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cycle":    sessions,
		"progress": planning.Progress,
	})
}

func (h *CycleHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	if _, err := h.planner.RemoveCycle(r.Context(), userID, planID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Cycle removed"})
}

// UpdateSessions applies a manual reorder or per-session duration edit.
func (h *CycleHandler) UpdateSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	var req struct {
		Sessions []cycle.StudySession `json:"sessions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	planning, err := h.planner.UpdateSessions(r.Context(), userID, planID, req.Sessions)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cycle":    planning.Cycle,
		"progress": planning.Progress,
	})
}

func (h *CycleHandler) Progress(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": planning.Progress})
}
