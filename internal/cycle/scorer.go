package cycle

import (
	"fmt"
	"sort"
	"time"
)

// neverStudiedDays is the staleness sentinel for topics with no study history.
const neverStudiedDays = 999

// Scoring weights. Error rate dominates, recency is scaled by the user's
// declared importance, raw frequency acts as a minor tiebreaker.
const (
	errorWeight     = 0.5
	frequencyWeight = 0.2
	timeWeight      = 0.3
)

type leafTopic struct {
	subjectID   string
	subjectName string
	text        string
	userWeight  int
}

// ComputeTopicScores flattens every leaf topic across subjects, derives its
// metrics from the study history, and returns the list sorted descending by
// score. The sort is stable: ties keep syllabus order. An empty subject list
// yields an empty result.
func ComputeTopicScores(subjects []Subject, records []StudyRecord, now time.Time) []TopicScore {
	var leaves []leafTopic
	for _, s := range subjects {
		collectLeaves(s, s.Topics, &leaves)
	}
	if len(leaves) == 0 {
		return nil
	}

	metrics := make([]TopicMetric, len(leaves))
	maxDays, maxStudyCount := 1, 1
	for i, leaf := range leaves {
		m := TopicMetric{
			SubjectID:          leaf.subjectID,
			SubjectName:        leaf.subjectName,
			TopicText:          leaf.text,
			HitRate:            1.0,
			DaysSinceLastStudy: neverStudiedDays,
			UserWeight:         leaf.userWeight,
		}

		correct := 0
		var lastStudied time.Time
		for _, rec := range records {
			if rec.SubjectID != leaf.subjectID || rec.TopicText != leaf.text {
				continue
			}
			m.StudyCount++
			m.TotalQuestions += rec.Questions.Total
			correct += rec.Questions.Correct
			if rec.Date.After(lastStudied) {
				lastStudied = rec.Date
			}
		}

		// An untested topic counts as fully known so unstudied material does
		// not crowd out known-weak material.
		if m.TotalQuestions > 0 {
			m.HitRate = float64(correct) / float64(m.TotalQuestions)
		}
		if m.StudyCount > 0 {
			m.DaysSinceLastStudy = daysBetween(lastStudied, now)
		}

		if m.DaysSinceLastStudy > maxDays {
			maxDays = m.DaysSinceLastStudy
		}
		if m.StudyCount > maxStudyCount {
			maxStudyCount = m.StudyCount
		}
		metrics[i] = m
	}

	scores := make([]TopicScore, len(metrics))
	for i, m := range metrics {
		errorScore := 1 - m.HitRate
		frequencyScore := 1 - float64(m.StudyCount)/float64(maxStudyCount)
		timeScore := float64(m.DaysSinceLastStudy) / float64(maxDays)
		weightFactor := float64(m.UserWeight) / 5

		scores[i] = TopicScore{
			TopicMetric:   m,
			Score:         errorWeight*errorScore + frequencyWeight*frequencyScore + timeWeight*timeScore*weightFactor,
			Justification: justify(m),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

func collectLeaves(subject Subject, topics []Topic, out *[]leafTopic) {
	for _, t := range topics {
		if t.IsGroupingTopic || len(t.Children) > 0 {
			collectLeaves(subject, t.Children, out)
			continue
		}
		weight := t.UserWeight
		if weight < 1 || weight > 5 {
			weight = 3
		}
		*out = append(*out, leafTopic{
			subjectID:   subject.ID,
			subjectName: subject.Name,
			text:        t.Text,
			userWeight:  weight,
		})
	}
}

func daysBetween(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

func justify(m TopicMetric) string {
	staleness := "never studied"
	if m.StudyCount > 0 {
		staleness = fmt.Sprintf("last studied %d days ago", m.DaysSinceLastStudy)
	}
	return fmt.Sprintf("hit rate %.0f%% over %d questions, studied %d times, %s, weight %d/5",
		m.HitRate*100, m.TotalQuestions, m.StudyCount, staleness, m.UserWeight)
}
