package cycle

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Advisory conditions surfaced by GenerateCycle. Callers translate these into
// user-visible warnings; they are never fatal.
var (
	ErrNoTopicScores      = errors.New("no scored topics available, log some study activity or load a syllabus first")
	ErrNoEligibleTopics   = errors.New("none of the scored topics belong to a selected subject")
	ErrInsufficientBudget = errors.New("the weekly budget is smaller than the minimum session length")
)

// Effective weight (importance/knowledge) spans [1/5, 5].
const (
	minEffectiveWeight = 0.2
	maxEffectiveWeight = 5.0
)

// GenerateCycle builds an ordered list of study sessions filling the weekly
// time budget. Topics are consumed round-robin across subjects, one topic per
// subject per turn, highest score first, so a subject with many weak topics is
// revisited across a long cycle rather than only once. Session duration grows
// with importance/knowledge, so weak or important subjects get longer
// sessions, not more sessions.
func GenerateCycle(params GenerateParams, scores []TopicScore) ([]StudySession, error) {
	if len(scores) == 0 {
		return nil, ErrNoTopicScores
	}

	selected := make(map[string]Subject, len(params.SelectedSubjects))
	for _, s := range params.SelectedSubjects {
		selected[s.ID] = s
	}

	eligible := make([]TopicScore, 0, len(scores))
	for _, ts := range scores {
		if _, ok := selected[ts.SubjectID]; ok {
			eligible = append(eligible, ts)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleTopics
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})

	// Per-subject queues in descending-score order, plus a rotation ordered by
	// each subject's first (strongest) appearance.
	queues := make(map[string][]TopicScore)
	var rotation []string
	for _, ts := range eligible {
		if _, ok := queues[ts.SubjectID]; !ok {
			rotation = append(rotation, ts.SubjectID)
		}
		queues[ts.SubjectID] = append(queues[ts.SubjectID], ts)
	}

	minSession := params.MinSessionMinutes
	maxSession := params.MaxSessionMinutes
	remaining := params.StudyHoursPerWeek * 60

	var sessions []StudySession
	idx := 0
	for len(rotation) > 0 && remaining >= float64(minSession) {
		subjectID := rotation[idx]
		queue := queues[subjectID]
		if len(queue) == 0 {
			rotation = append(rotation[:idx], rotation[idx+1:]...)
			if idx >= len(rotation) {
				idx = 0
			}
			continue
		}
		queues[subjectID] = queue[1:]

		duration := sessionDuration(params.SubjectSettings[subjectID], minSession, maxSession)
		final := math.Min(float64(duration), remaining)
		if final < float64(minSession) {
			break
		}

		subject := selected[subjectID]
		sessions = append(sessions, StudySession{
			ID:              uuid.New().String(),
			SubjectID:       subjectID,
			SubjectName:     subject.Name,
			DurationMinutes: int(final),
			Color:           subject.Color,
		})

		remaining -= final
		idx++
		if idx >= len(rotation) {
			idx = 0
		}
	}

	if len(sessions) == 0 {
		return nil, ErrInsufficientBudget
	}
	return sessions, nil
}

// sessionDuration maps a subject's importance/knowledge ratio onto the
// [minSession, maxSession] range, rounded to the nearest 5 minutes.
func sessionDuration(setting SubjectSetting, minSession, maxSession int) int {
	knowledge := setting.Knowledge
	if knowledge < 1 {
		knowledge = 1
	}
	effective := float64(setting.Importance) / float64(knowledge)
	normalized := (effective - minEffectiveWeight) / (maxEffectiveWeight - minEffectiveWeight)

	duration := float64(minSession) + float64(maxSession-minSession)*normalized
	rounded := int(math.Round(duration/5) * 5)
	if rounded < minSession {
		rounded = minSession
	}
	if rounded > maxSession {
		rounded = maxSession
	}
	return rounded
}
