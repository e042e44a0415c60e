package models

import (
	"time"

	"github.com/google/uuid"

	"ouroboros-backend/internal/cycle"
)

// Subject is a syllabus subject row. The topic tree is stored as jsonb; the
// id is the only stable cross-reference used by records, sessions, and weight
// maps, while Name is denormalized onto historical rows and must be
// propagated on rename.
type Subject struct {
	ID        uuid.UUID     `json:"id"`
	PlanID    uuid.UUID     `json:"plan_id"`
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Color     string        `json:"color"`
	Topics    []cycle.Topic `json:"topics"`
	Position  int           `json:"position"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ToEngine converts the row into the engine's subject shape.
func (s *Subject) ToEngine() cycle.Subject {
	return cycle.Subject{
		ID:     s.ID.String(),
		Name:   s.Name,
		Color:  s.Color,
		Topics: s.Topics,
	}
}

// EngineSubjects converts a slice of rows preserving order.
func EngineSubjects(subjects []*Subject) []cycle.Subject {
	out := make([]cycle.Subject, len(subjects))
	for i, s := range subjects {
		out[i] = s.ToEngine()
	}
	return out
}
