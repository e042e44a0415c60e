package services

import (
	"testing"

	"github.com/google/uuid"

	"ouroboros-backend/internal/models"
)

func TestCheckSubjectPlan(t *testing.T) {
	planID := uuid.New()
	otherPlanID := uuid.New()

	t.Run("subject in plan passes", func(t *testing.T) {
		subject := &models.Subject{ID: uuid.New(), PlanID: planID, Name: "Português"}
		if err := checkSubjectPlan(subject, planID); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("cross-plan subject rejected", func(t *testing.T) {
		subject := &models.Subject{ID: uuid.New(), PlanID: otherPlanID, Name: "Português"}
		err := checkSubjectPlan(subject, planID)

		verr, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("Expected ValidationError, got %v", err)
		}
		if verr.Fields["subject_id"] == "" {
			t.Errorf("Expected a subject_id field error, got %v", verr.Fields)
		}
	})
}
