package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"ouroboros-backend/internal/models"
)

func TestScheduleReviews(t *testing.T) {
	studied := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := &models.StudyRecord{
		ID:          "1767100000000-abc",
		PlanID:      uuid.New(),
		UserID:      uuid.New(),
		SubjectID:   uuid.New(),
		SubjectName: "Constitutional Law",
		TopicText:   "Fundamental Rights",
		Date:        studied,
	}

	reviews := ScheduleReviews(rec)
	if len(reviews) != 3 {
		t.Fatalf("Expected 3 reviews, got %d", len(reviews))
	}

	wantDates := []time.Time{
		studied.AddDate(0, 0, 1),
		studied.AddDate(0, 0, 7),
		studied.AddDate(0, 0, 30),
	}
	for i, rev := range reviews {
		if !rev.ScheduledDate.Equal(wantDates[i]) {
			t.Errorf("Review %d: expected date %v, got %v", i, wantDates[i], rev.ScheduledDate)
		}
		if rev.StudyRecordID != rec.ID {
			t.Errorf("Review %d: expected record id %s, got %s", i, rec.ID, rev.StudyRecordID)
		}
		if rev.SubjectName != "Constitutional Law" || rev.TopicText != "Fundamental Rights" {
			t.Errorf("Review %d: denormalized fields not carried over: %+v", i, rev)
		}
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name      string
		settings  models.PlanSettings
		wantField string
	}{
		{"zero hours", models.PlanSettings{MinSessionMinutes: 30, MaxSessionMinutes: 60}, "study_hours_per_week"},
		{"min above max", models.PlanSettings{StudyHoursPerWeek: 10, MinSessionMinutes: 90, MaxSessionMinutes: 60}, "min_session_minutes"},
		{"zero max", models.PlanSettings{StudyHoursPerWeek: 10, MinSessionMinutes: 30}, "max_session_minutes"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := validateSettings(tc.settings)
			if _, ok := fields[tc.wantField]; !ok {
				t.Errorf("Expected validation error on %q, got %v", tc.wantField, fields)
			}
		})
	}

	valid := models.DefaultPlanSettings()
	if fields := validateSettings(valid); len(fields) != 0 {
		t.Errorf("Expected default settings to validate, got %v", fields)
	}
}
