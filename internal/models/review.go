package models

import (
	"time"

	"github.com/google/uuid"
)

// Review statuses.
const (
	ReviewPending   = "pending"
	ReviewCompleted = "completed"
	ReviewSkipped   = "skipped"
)

// ReviewRecord is one scheduled spaced-repetition pass over a studied topic.
// Reviews are created when a study record is saved and deleted with it.
type ReviewRecord struct {
	ID            uuid.UUID  `json:"id"`
	StudyRecordID string     `json:"study_record_id"`
	PlanID        uuid.UUID  `json:"plan_id"`
	UserID        uuid.UUID  `json:"user_id"`
	SubjectID     uuid.UUID  `json:"subject_id"`
	SubjectName   string     `json:"subject_name"`
	TopicText     string     `json:"topic_text"`
	IntervalDays  int        `json:"interval_days"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Status        string     `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
