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
)

type ExamHandler struct {
	repo *repository.ExamRepo
}

func NewExamHandler(repo *repository.ExamRepo) *ExamHandler {
	return &ExamHandler{repo: repo}
}

type examRequest struct {
	Name     string                  `json:"name"`
	Style    string                  `json:"style"`
	Date     time.Time               `json:"date"`
	Results  []models.MockExamResult `json:"results"`
	Comments *string                 `json:"comments"`
}

func (req *examRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Style != "multiple_choice" && req.Style != "right_wrong" {
		return "style must be multiple_choice or right_wrong"
	}
	if req.Date.IsZero() {
		return "date is required"
	}
	return ""
}

func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	var req examRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", msg, r))
		return
	}

	exam := &models.MockExam{
		PlanID:   planID,
		UserID:   userID,
		Name:     req.Name,
		Style:    req.Style,
		Date:     req.Date,
		Results:  req.Results,
		Comments: req.Comments,
	}
	if exam.Results == nil {
		exam.Results = []models.MockExamResult{}
	}
	if err := h.repo.Create(r.Context(), exam); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create mock exam", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"exam": exam})
}

func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	exams, err := h.repo.ListByPlan(r.Context(), planID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list mock exams", r))
		return
	}
	if exams == nil {
		exams = []*models.MockExam{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"exams": exams})
}

func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	examID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid exam ID", r))
		return
	}

	var req examRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", msg, r))
		return
	}

	exam, err := h.repo.GetByID(r.Context(), examID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Mock exam not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load mock exam", r))
		return
	}

	exam.Name = req.Name
	exam.Style = req.Style
	exam.Date = req.Date
	exam.Results = req.Results
	exam.Comments = req.Comments

	if err := h.repo.Update(r.Context(), exam); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update mock exam", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"exam": exam})
}

func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	examID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid exam ID", r))
		return
	}

	if err := h.repo.Delete(r.Context(), examID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Mock exam not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete mock exam", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Mock exam deleted"})
}
