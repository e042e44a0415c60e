package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ouroboros-backend/internal/cycle"
	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/services"
)

// ─── Response Helper Tests ───

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"status": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %q", body["status"])
	}
}

func TestErrorResp_CarriesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Plan not found", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request id 'req-123', got %q", resp.Error.RequestID)
	}
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"name": "required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "duplicate"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "missing"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "no token"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "not yours"}, http.StatusForbidden, "FORBIDDEN"},
		{"advisory", &services.AdvisoryError{Message: "no topics"}, http.StatusUnprocessableEntity, "NOTHING_TO_GENERATE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil)

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("Expected code %q, got %q", tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", nil)

	handleServiceError(rr, req, &services.ValidationError{
		Fields: map[string]string{"study_hours_per_week": "must be positive"},
	})

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Fields["study_hours_per_week"] != "must be positive" {
		t.Errorf("Expected field error to survive serialization, got %v", resp.Error.Fields)
	}
}

// ─── Topic Weight Tests ───

func TestSetTopicWeight(t *testing.T) {
	tree := []cycle.Topic{
		{
			Text:            "Direito Constitucional",
			IsGroupingTopic: true,
			Children: []cycle.Topic{
				{Text: "Princípios Fundamentais"},
				{Text: "Direitos e Garantias"},
			},
		},
		{Text: "Português"},
	}

	tests := []struct {
		name   string
		path   []string
		weight int
		want   bool
	}{
		{"top-level leaf", []string{"Português"}, 5, true},
		{"nested leaf", []string{"Direito Constitucional", "Direitos e Garantias"}, 4, true},
		{"missing root", []string{"Inexistente"}, 3, false},
		{"missing child", []string{"Direito Constitucional", "Inexistente"}, 3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := setTopicWeight(tree, tc.path, tc.weight)
			if got != tc.want {
				t.Fatalf("Expected %v, got %v", tc.want, got)
			}
		})
	}

	if tree[1].UserWeight != 5 {
		t.Errorf("Expected top-level weight 5, got %d", tree[1].UserWeight)
	}
	if tree[0].Children[1].UserWeight != 4 {
		t.Errorf("Expected nested weight 4, got %d", tree[0].Children[1].UserWeight)
	}
	if tree[0].UserWeight != 0 {
		t.Errorf("Grouping topic weight should be untouched, got %d", tree[0].UserWeight)
	}
}

// ─── Exam Request Tests ───

func TestExamRequestValidate(t *testing.T) {
	date := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     examRequest
		wantErr bool
	}{
		{"valid multiple choice", examRequest{Name: "Simulado 1", Style: "multiple_choice", Date: date}, false},
		{"valid right wrong", examRequest{Name: "Simulado 2", Style: "right_wrong", Date: date}, false},
		{"missing name", examRequest{Style: "multiple_choice", Date: date}, true},
		{"bad style", examRequest{Name: "Simulado", Style: "essay", Date: date}, true},
		{"missing date", examRequest{Name: "Simulado", Style: "right_wrong"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.req.validate()
			if tc.wantErr && msg == "" {
				t.Error("Expected a validation message, got none")
			}
			if !tc.wantErr && msg != "" {
				t.Errorf("Expected no validation message, got %q", msg)
			}
		})
	}
}
