package cycle

import (
	"math"
	"strings"
	"testing"
	"time"
)

var scorerNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func leaf(text string, weight int) Topic {
	return Topic{Text: text, UserWeight: weight}
}

func TestComputeTopicScores_EmptySyllabus(t *testing.T) {
	if scores := ComputeTopicScores(nil, nil, scorerNow); len(scores) != 0 {
		t.Errorf("Expected no scores for empty syllabus, got %d", len(scores))
	}
}

func TestComputeTopicScores_Deterministic(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Constitutional Law", Topics: []Topic{leaf("Rights", 3), leaf("Powers", 5)}},
		{ID: "s2", Name: "Portuguese", Topics: []Topic{leaf("Syntax", 3)}},
	}
	records := []StudyRecord{
		{ID: "1767100000000-a", Date: scorerNow.AddDate(0, 0, -3), SubjectID: "s1", TopicText: "Rights", StudyTimeMs: 3600000, Questions: Questions{Correct: 6, Total: 10}},
	}

	first := ComputeTopicScores(subjects, records, scorerNow)
	second := ComputeTopicScores(subjects, records, scorerNow)

	if len(first) != len(second) {
		t.Fatalf("Expected equal lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].TopicText != second[i].TopicText || first[i].Score != second[i].Score {
			t.Errorf("Position %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestComputeTopicScores_HitRateDefault(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Math", Topics: []Topic{leaf("Sets", 3)}},
	}
	// Studied twice, zero questions answered.
	records := []StudyRecord{
		{ID: "1767100000000-a", Date: scorerNow.AddDate(0, 0, -2), SubjectID: "s1", TopicText: "Sets", StudyTimeMs: 1800000},
		{ID: "1767100000001-b", Date: scorerNow.AddDate(0, 0, -1), SubjectID: "s1", TopicText: "Sets", StudyTimeMs: 1800000},
	}

	scores := ComputeTopicScores(subjects, records, scorerNow)
	if len(scores) != 1 {
		t.Fatalf("Expected 1 score, got %d", len(scores))
	}
	if scores[0].HitRate != 1.0 {
		t.Errorf("Expected hit rate 1.0 for untested topic, got %v", scores[0].HitRate)
	}
	if scores[0].StudyCount != 2 {
		t.Errorf("Expected study count 2, got %d", scores[0].StudyCount)
	}
}

func TestComputeTopicScores_NeverStudiedRanksFirst(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Math", Topics: []Topic{leaf("Studied", 3), leaf("Untouched", 3)}},
	}
	// Perfect hit rate so the only differentiators are staleness and frequency.
	records := []StudyRecord{
		{ID: "1767100000000-a", Date: scorerNow.AddDate(0, 0, -5), SubjectID: "s1", TopicText: "Studied", StudyTimeMs: 3600000, Questions: Questions{Correct: 10, Total: 10}},
	}

	scores := ComputeTopicScores(subjects, records, scorerNow)
	if scores[0].TopicText != "Untouched" {
		t.Errorf("Expected never-studied topic first, got %q", scores[0].TopicText)
	}
	if scores[0].DaysSinceLastStudy != 999 {
		t.Errorf("Expected staleness sentinel 999, got %d", scores[0].DaysSinceLastStudy)
	}
	if scores[0].Score < scores[1].Score {
		t.Errorf("Never-studied topic should not rank below studied one: %v < %v", scores[0].Score, scores[1].Score)
	}
}

func TestComputeTopicScores_FreshSyllabusScore(t *testing.T) {
	// No history at all: errorScore 0, frequencyScore 1, timeScore 1.
	// score = 0.2 + 0.3*1*(3/5) = 0.38 for both topics.
	subjects := []Subject{
		{ID: "s1", Name: "A", Topics: []Topic{leaf("T1", 3)}},
		{ID: "s2", Name: "B", Topics: []Topic{leaf("T2", 3)}},
	}

	scores := ComputeTopicScores(subjects, nil, scorerNow)
	if len(scores) != 2 {
		t.Fatalf("Expected 2 scores, got %d", len(scores))
	}
	for _, s := range scores {
		if math.Abs(s.Score-0.38) > 1e-9 {
			t.Errorf("Topic %q: expected score 0.38, got %v", s.TopicText, s.Score)
		}
	}
	// Stable sort keeps syllabus order on ties.
	if scores[0].TopicText != "T1" || scores[1].TopicText != "T2" {
		t.Errorf("Expected syllabus order on tie, got %q then %q", scores[0].TopicText, scores[1].TopicText)
	}
}

func TestComputeTopicScores_GroupingTopicsExcluded(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Law", Topics: []Topic{
			{Text: "General", IsGroupingTopic: true, Children: []Topic{leaf("Child A", 4), leaf("Child B", 2)}},
		}},
	}

	scores := ComputeTopicScores(subjects, nil, scorerNow)
	if len(scores) != 2 {
		t.Fatalf("Expected only the 2 leaves, got %d scores", len(scores))
	}
	for _, s := range scores {
		if s.TopicText == "General" {
			t.Error("Grouping topic should not be scored")
		}
	}
	// Higher user weight ranks first, all else equal.
	if scores[0].TopicText != "Child A" {
		t.Errorf("Expected weight-4 topic first, got %q", scores[0].TopicText)
	}
}

func TestComputeTopicScores_DefaultUserWeight(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Law", Topics: []Topic{{Text: "Unweighted"}}},
	}

	scores := ComputeTopicScores(subjects, nil, scorerNow)
	if scores[0].UserWeight != 3 {
		t.Errorf("Expected default weight 3, got %d", scores[0].UserWeight)
	}
}

func TestComputeTopicScores_Justification(t *testing.T) {
	subjects := []Subject{
		{ID: "s1", Name: "Math", Topics: []Topic{leaf("Sets", 4)}},
	}
	records := []StudyRecord{
		{ID: "1767100000000-a", Date: scorerNow.AddDate(0, 0, -7), SubjectID: "s1", TopicText: "Sets", StudyTimeMs: 3600000, Questions: Questions{Correct: 3, Total: 10}},
	}

	scores := ComputeTopicScores(subjects, records, scorerNow)
	just := scores[0].Justification
	for _, want := range []string{"30%", "10 questions", "studied 1 times", "7 days ago", "weight 4/5"} {
		if !strings.Contains(just, want) {
			t.Errorf("Justification %q missing %q", just, want)
		}
	}
}
