package cycle

import (
	"errors"
	"testing"
)

func scoredTopics(subjectID string, n int) []TopicScore {
	scores := make([]TopicScore, n)
	for i := range scores {
		scores[i] = TopicScore{TopicMetric: TopicMetric{
			SubjectID: subjectID,
			TopicText: subjectID + "-topic",
		}, Score: 0.5 - float64(i)*0.01}
	}
	return scores
}

func defaultParams(subjects ...Subject) GenerateParams {
	settings := make(map[string]SubjectSetting, len(subjects))
	for _, s := range subjects {
		settings[s.ID] = SubjectSetting{Importance: 3, Knowledge: 3}
	}
	return GenerateParams{
		StudyHoursPerWeek: 10,
		MinSessionMinutes: 30,
		MaxSessionMinutes: 60,
		SubjectSettings:   settings,
		SelectedSubjects:  subjects,
	}
}

func TestGenerateCycle_NoScores(t *testing.T) {
	_, err := GenerateCycle(defaultParams(Subject{ID: "s1"}), nil)
	if !errors.Is(err, ErrNoTopicScores) {
		t.Errorf("Expected ErrNoTopicScores, got %v", err)
	}
}

func TestGenerateCycle_NoEligibleTopics(t *testing.T) {
	scores := scoredTopics("s9", 3) // not a selected subject
	_, err := GenerateCycle(defaultParams(Subject{ID: "s1", Name: "A"}), scores)
	if !errors.Is(err, ErrNoEligibleTopics) {
		t.Errorf("Expected ErrNoEligibleTopics, got %v", err)
	}
}

func TestGenerateCycle_BudgetBounds(t *testing.T) {
	a := Subject{ID: "s1", Name: "A", Color: "#f00"}
	b := Subject{ID: "s2", Name: "B", Color: "#0f0"}
	params := defaultParams(a, b)
	scores := append(scoredTopics("s1", 20), scoredTopics("s2", 20)...)

	sessions, err := GenerateCycle(params, scores)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	budget := params.StudyHoursPerWeek * 60
	total := 0
	for _, s := range sessions {
		total += s.DurationMinutes
		if s.DurationMinutes < params.MinSessionMinutes || s.DurationMinutes > params.MaxSessionMinutes {
			t.Errorf("Session duration %d outside [%d, %d]", s.DurationMinutes, params.MinSessionMinutes, params.MaxSessionMinutes)
		}
	}
	if float64(total) > budget {
		t.Errorf("Total %d exceeds budget %v", total, budget)
	}
	if float64(total) < budget-float64(params.MaxSessionMinutes) {
		t.Errorf("Total %d leaves more than one session unused out of %v", total, budget)
	}
}

func TestGenerateCycle_RoundRobinFairness(t *testing.T) {
	a := Subject{ID: "s1", Name: "A"}
	b := Subject{ID: "s2", Name: "B"}
	params := defaultParams(a, b)
	scores := append(scoredTopics("s1", 10), scoredTopics("s2", 10)...)

	sessions, err := GenerateCycle(params, scores)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sessions) < 2 {
		t.Fatalf("Expected at least 2 sessions, got %d", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].SubjectID == sessions[i-1].SubjectID {
			t.Errorf("Subject %s appears twice in a row at position %d", sessions[i].SubjectID, i)
		}
	}
}

func TestGenerateCycle_TopicsRunOut(t *testing.T) {
	a := Subject{ID: "s1", Name: "A"}
	params := defaultParams(a)
	params.StudyHoursPerWeek = 40 // far more budget than topics

	sessions, err := GenerateCycle(params, scoredTopics("s1", 3))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// One session per topic, never reused within a generation.
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions for 3 topics, got %d", len(sessions))
	}
}

func TestGenerateCycle_DurationFromWeights(t *testing.T) {
	tests := []struct {
		name    string
		setting SubjectSetting
		want    int
	}{
		{"important and unknown maxes out", SubjectSetting{Importance: 5, Knowledge: 1}, 60},
		{"unimportant and mastered floors", SubjectSetting{Importance: 1, Knowledge: 5}, 30},
		{"balanced lands near the floor", SubjectSetting{Importance: 3, Knowledge: 3}, 35},
		{"zero knowledge treated as one", SubjectSetting{Importance: 5, Knowledge: 0}, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Subject{ID: "s1", Name: "A"}
			params := defaultParams(a)
			params.SubjectSettings["s1"] = tc.setting
			params.StudyHoursPerWeek = 1.5 // room for exactly one widest session

			sessions, err := GenerateCycle(params, scoredTopics("s1", 1))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(sessions) != 1 {
				t.Fatalf("Expected 1 session, got %d", len(sessions))
			}
			if sessions[0].DurationMinutes != tc.want {
				t.Errorf("Expected %d minutes, got %d", tc.want, sessions[0].DurationMinutes)
			}
		})
	}
}

func TestGenerateCycle_DenormalizesSubjectFields(t *testing.T) {
	a := Subject{ID: "s1", Name: "Administrative Law", Color: "#abc123"}
	sessions, err := GenerateCycle(defaultParams(a), scoredTopics("s1", 1))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	s := sessions[0]
	if s.SubjectName != "Administrative Law" || s.Color != "#abc123" {
		t.Errorf("Expected denormalized name/color, got %+v", s)
	}
	if s.ID == "" {
		t.Error("Expected a generated session id")
	}
}

func TestGenerateCycle_BudgetBelowMinSession(t *testing.T) {
	a := Subject{ID: "s1", Name: "A"}
	params := defaultParams(a)
	params.StudyHoursPerWeek = 0.25 // 15 minutes, below the 30-minute floor

	sessions, err := GenerateCycle(params, scoredTopics("s1", 5))
	if !errors.Is(err, ErrInsufficientBudget) {
		t.Errorf("Expected ErrInsufficientBudget, got %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("Expected no sessions with budget below min length, got %d", len(sessions))
	}
}
