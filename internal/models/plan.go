package models

import (
	"time"

	"github.com/google/uuid"

	"ouroboros-backend/internal/cycle"
)

// Plan is one study plan ("edital") owned by a user. Everything the cycle
// engine produces for a plan is stored in its PlanningRecord blob.
type Plan struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	ExamDate  *time.Time `json:"exam_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PlanSettings are the user-facing generation knobs, round-tripped losslessly
// through the planning blob.
type PlanSettings struct {
	StudyHoursPerWeek   float64                         `json:"study_hours_per_week"`
	WeeklyQuestionsGoal int                             `json:"weekly_questions_goal"`
	MinSessionMinutes   int                             `json:"min_session_minutes"`
	MaxSessionMinutes   int                             `json:"max_session_minutes"`
	SubjectSettings     map[string]cycle.SubjectSetting `json:"subject_settings"`
	StudyDays           []string                        `json:"study_days"`
}

// DefaultPlanSettings mirrors what the frontend seeds for a fresh plan.
func DefaultPlanSettings() PlanSettings {
	return PlanSettings{
		StudyHoursPerWeek:   20,
		WeeklyQuestionsGoal: 100,
		MinSessionMinutes:   30,
		MaxSessionMinutes:   90,
		SubjectSettings:     map[string]cycle.SubjectSetting{},
		StudyDays:           []string{"mon", "tue", "wed", "thu", "fri"},
	}
}

// PlanningRecord is the opaque per-plan blob the engine's outputs live in:
// the generation settings, the current cycle, and its progress snapshot. It
// is stored as a single jsonb column and treated purely as get/set.
type PlanningRecord struct {
	Settings PlanSettings           `json:"settings"`
	Cycle    []cycle.StudySession   `json:"cycle"`
	Progress cycle.ProgressSnapshot `json:"progress"`
}

// ResetForGeneration installs a freshly generated cycle: the settings that
// produced it, the new session list, and a zeroed snapshot stamped with the
// generation instant. Completed-cycle counts and session progress from the
// previous cycle are discarded; records logged before now stay out of the
// new cycle via the stamp.
func (p *PlanningRecord) ResetForGeneration(settings PlanSettings, sessions []cycle.StudySession, now time.Time) {
	p.Settings = settings
	p.Cycle = sessions
	p.Progress = cycle.EmptySnapshot(&now)
}
