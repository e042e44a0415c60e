package models

import (
	"time"

	"github.com/google/uuid"
)

// MockExamResult is one subject's score within a mock exam.
type MockExamResult struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Correct   int       `json:"correct"`
	Wrong     int       `json:"wrong"`
	Blank     int       `json:"blank"`
}

// MockExam records a full practice exam ("simulado") with per-subject
// results, stored as a jsonb column.
type MockExam struct {
	ID        uuid.UUID        `json:"id"`
	PlanID    uuid.UUID        `json:"plan_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Name      string           `json:"name"`
	Style     string           `json:"style"` // "multiple_choice" | "right_wrong"
	Date      time.Time        `json:"date"`
	Results   []MockExamResult `json:"results"`
	Comments  *string          `json:"comments,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
