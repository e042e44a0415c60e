package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/repository"
	"ouroboros-backend/internal/services"
)

type RecordHandler struct {
	repo    *repository.RecordRepo
	service *services.RecordService
}

func NewRecordHandler(repo *repository.RecordRepo, service *services.RecordService) *RecordHandler {
	return &RecordHandler{repo: repo, service: service}
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	records, err := h.repo.ListByPlan(r.Context(), planID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list study records", r))
		return
	}
	if records == nil {
		records = []*models.StudyRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	var input services.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	rec, err := h.service.Create(r.Context(), userID, planID, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"record": rec})
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	recordID := chi.URLParam(r, "id")

	var input services.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	rec, err := h.service.Update(r.Context(), userID, recordID, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"record": rec})
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	recordID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, recordID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Study record deleted"})
}
