// Package cycle implements the study-cycle engine: topic scoring, cycle
// generation, and progress attribution. Everything in this package is a pure
// function of its inputs; persistence and transport live elsewhere.
package cycle

import "time"

// Topic is a node of a subject's syllabus tree. Only leaf topics (those with
// IsGroupingTopic == false) accumulate study statistics and participate in
// scoring; grouping topics exist to organize their children.
type Topic struct {
	Text            string  `json:"text"`
	IsGroupingTopic bool    `json:"is_grouping_topic"`
	Children        []Topic `json:"children,omitempty"`
	UserWeight      int     `json:"user_weight"` // 1-5 importance multiplier, default 3
}

// Subject groups a syllabus topic tree under a stable id. The id is the only
// cross-reference used by study records, cycle sessions, and weight maps;
// Name is denormalized onto historical records for display.
type Subject struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Topics []Topic `json:"topics"`
}

// Questions holds the question tally of a single study record.
type Questions struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// StudyRecord is one logged study session. The id's first dash-separated
// segment is a millisecond epoch timestamp; CreationTime relies on that.
type StudyRecord struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	SubjectID       string    `json:"subject_id"`
	TopicText       string    `json:"topic_text"`
	StudyTimeMs     int64     `json:"study_time_ms"`
	Questions       Questions `json:"questions"`
	CountInPlanning bool      `json:"count_in_planning"`
}

// TopicMetric is the per-leaf-topic statistic bundle derived from study
// history. Ephemeral; recomputed on every scoring pass.
type TopicMetric struct {
	SubjectID          string  `json:"subject_id"`
	SubjectName        string  `json:"subject_name"`
	TopicText          string  `json:"topic_text"`
	HitRate            float64 `json:"hit_rate"`
	TotalQuestions     int     `json:"total_questions"`
	StudyCount         int     `json:"study_count"`
	DaysSinceLastStudy int     `json:"days_since_last_study"`
	UserWeight         int     `json:"user_weight"`
}

// TopicScore is a TopicMetric plus its computed priority and a human-readable
// justification string rendered verbatim in the recommendation UI.
type TopicScore struct {
	TopicMetric
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// StudySession is one timed slot of a generated cycle.
type StudySession struct {
	ID              string `json:"id"`
	SubjectID       string `json:"subject_id"`
	SubjectName     string `json:"subject_name"`
	DurationMinutes int    `json:"duration_minutes"`
	Color           string `json:"color"`
}

// SubjectSetting carries the user-declared weights for one selected subject.
type SubjectSetting struct {
	Importance int `json:"importance"` // 1-5
	Knowledge  int `json:"knowledge"`  // 1-5
}

// GenerateParams are the inputs of a cycle generation pass.
type GenerateParams struct {
	StudyHoursPerWeek float64                   `json:"study_hours_per_week"`
	MinSessionMinutes int                       `json:"min_session_minutes"`
	MaxSessionMinutes int                       `json:"max_session_minutes"`
	SubjectSettings   map[string]SubjectSetting `json:"subject_settings"`
	SelectedSubjects  []Subject                 `json:"selected_subjects"`
}

// ProgressSnapshot is the attribution result for one cycle. SessionProgress
// values never exceed the corresponding session's duration. GeneratedAt marks
// which study records are eligible: records created before it never count
// toward the cycle it stamps.
type ProgressSnapshot struct {
	CompletedCycles            int                `json:"completed_cycles"`
	SessionProgressMinutes     map[string]float64 `json:"session_progress_minutes"`
	CurrentCycleProgressMinutes float64           `json:"current_cycle_progress_minutes"`
	GeneratedAt                *time.Time         `json:"generated_at,omitempty"`
}

// EmptySnapshot returns a zero-valued snapshot stamped with generatedAt.
func EmptySnapshot(generatedAt *time.Time) ProgressSnapshot {
	return ProgressSnapshot{
		SessionProgressMinutes: map[string]float64{},
		GeneratedAt:            generatedAt,
	}
}
