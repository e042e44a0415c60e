package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ouroboros-backend/internal/cycle"
)

// StudyRecord is one logged study session. Its id is assigned at creation as
// "<unixMilli>-<uuid>" so the leading segment is a millisecond timestamp; the
// attributor's eligibility filter depends on that. Identity is immutable,
// data fields are editable, deletion cascades the record's reviews.
type StudyRecord struct {
	ID               string    `json:"id"`
	PlanID           uuid.UUID `json:"plan_id"`
	UserID           uuid.UUID `json:"user_id"`
	Date             time.Time `json:"date"`
	SubjectID        uuid.UUID `json:"subject_id"`
	SubjectName      string    `json:"subject_name"`
	TopicText        string    `json:"topic_text"`
	StudyTimeMs      int64     `json:"study_time_ms"`
	QuestionsCorrect int       `json:"questions_correct"`
	QuestionsTotal   int       `json:"questions_total"`
	CountInPlanning  bool      `json:"count_in_planning"`
	Category         string    `json:"category"`
	Comments         *string   `json:"comments,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewStudyRecordID builds a time-sortable record id whose first segment is
// the creation instant in epoch milliseconds.
func NewStudyRecordID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.New())
}

// ToEngine converts the row into the engine's record shape.
func (r *StudyRecord) ToEngine() cycle.StudyRecord {
	return cycle.StudyRecord{
		ID:          r.ID,
		Date:        r.Date,
		SubjectID:   r.SubjectID.String(),
		TopicText:   r.TopicText,
		StudyTimeMs: r.StudyTimeMs,
		Questions: cycle.Questions{
			Correct: r.QuestionsCorrect,
			Total:   r.QuestionsTotal,
		},
		CountInPlanning: r.CountInPlanning,
	}
}

// EngineRecords converts a slice of rows preserving order.
func EngineRecords(records []*StudyRecord) []cycle.StudyRecord {
	out := make([]cycle.StudyRecord, len(records))
	for i, r := range records {
		out[i] = r.ToEngine()
	}
	return out
}
