package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ouroboros-backend/internal/cycle"
	"ouroboros-backend/internal/middleware"
	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/repository"
)

type SubjectHandler struct {
	repo *repository.SubjectRepo
}

func NewSubjectHandler(repo *repository.SubjectRepo) *SubjectHandler {
	return &SubjectHandler{repo: repo}
}

type subjectRequest struct {
	Name   string        `json:"name"`
	Color  string        `json:"color"`
	Topics []cycle.Topic `json:"topics"`
}

func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	subjects, err := h.repo.ListByPlan(r.Context(), planID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list subjects", r))
		return
	}
	if subjects == nil {
		subjects = []*models.Subject{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": subjects})
}

func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}

	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name is required", r))
		return
	}

	subject := &models.Subject{
		PlanID: planID,
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
		Topics: req.Topics,
	}
	if subject.Topics == nil {
		subject.Topics = []cycle.Topic{}
	}
	if err := h.repo.Create(r.Context(), subject); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create subject", r))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"subject": subject})
}

// Update replaces name, color, and the topic tree. Renames propagate to the
// denormalized name on historical records inside the repo transaction.
func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name is required", r))
		return
	}

	subject, err := h.repo.GetByID(r.Context(), subjectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load subject", r))
		return
	}

	subject.Name = req.Name
	subject.Color = req.Color
	if req.Topics != nil {
		subject.Topics = req.Topics
	}

	if err := h.repo.Update(r.Context(), subject); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update subject", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"subject": subject})
}

func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	if err := h.repo.Delete(r.Context(), subjectID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete subject", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Subject deleted"})
}

type topicWeightRequest struct {
	TopicPath  []string `json:"topic_path"`
	UserWeight int      `json:"user_weight"`
}

// UpdateTopicWeight writes a new importance weight onto one topic of the
// subject's tree. The scorer picks the weight up on its next run; nothing is
// recomputed eagerly here.
func (h *SubjectHandler) UpdateTopicWeight(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	subjectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid subject ID", r))
		return
	}

	var req topicWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if len(req.TopicPath) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "topic_path is required", r))
		return
	}
	if req.UserWeight < 1 || req.UserWeight > 5 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "user_weight must be between 1 and 5", r))
		return
	}

	subject, err := h.repo.GetByID(r.Context(), subjectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Subject not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load subject", r))
		return
	}

	if !setTopicWeight(subject.Topics, req.TopicPath, req.UserWeight) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Topic not found in subject tree", r))
		return
	}

	if err := h.repo.Update(r.Context(), subject); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save topic weight", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"subject": subject})
}

// setTopicWeight walks the tree along path segments (topic texts, unique
// among siblings) and sets the weight on the final node.
func setTopicWeight(topics []cycle.Topic, path []string, weight int) bool {
	for i := range topics {
		if topics[i].Text != path[0] {
			continue
		}
		if len(path) == 1 {
			topics[i].UserWeight = weight
			return true
		}
		return setTopicWeight(topics[i].Children, path[1:], weight)
	}
	return false
}
