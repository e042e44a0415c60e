package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"ouroboros-backend/internal/cycle"
	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/repository"
)

// RecomputeQueue is the redis list the worker pool consumes.
const RecomputeQueue = "queue:progress-recompute"

// PlannerService orchestrates the cycle engine: scoring, generation, and
// progress attribution, plus the persistence and event fan-out around them.
// The engine itself stays pure; this service threads state through it.
type PlannerService struct {
	planRepo    *repository.PlanRepo
	subjectRepo *repository.SubjectRepo
	recordRepo  *repository.RecordRepo
	jobRepo     *repository.JobRepo
	queue       *redis.Client
}

func NewPlannerService(
	planRepo *repository.PlanRepo,
	subjectRepo *repository.SubjectRepo,
	recordRepo *repository.RecordRepo,
	jobRepo *repository.JobRepo,
	queue *redis.Client,
) *PlannerService {
	return &PlannerService{
		planRepo:    planRepo,
		subjectRepo: subjectRepo,
		recordRepo:  recordRepo,
		jobRepo:     jobRepo,
		queue:       queue,
	}
}

// Recommendations scores every leaf topic of the plan's syllabus against the
// study history, highest priority first.
func (s *PlannerService) Recommendations(ctx context.Context, userID, planID uuid.UUID) ([]cycle.TopicScore, error) {
	subjects, records, err := s.loadSyllabus(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return cycle.ComputeTopicScores(models.EngineSubjects(subjects), models.EngineRecords(records), time.Now()), nil
}

// Generate builds a fresh cycle from the given settings and resets the
// progress snapshot: a new cycle always starts at zero, and records logged
// before generation never count toward it.
func (s *PlannerService) Generate(ctx context.Context, userID, planID uuid.UUID, settings models.PlanSettings) (*models.PlanningRecord, error) {
	if fields := validateSettings(settings); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	planning, err := s.loadPlanning(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	subjects, records, err := s.loadSyllabus(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	engineSubjects := models.EngineSubjects(subjects)
	scores := cycle.ComputeTopicScores(engineSubjects, models.EngineRecords(records), time.Now())

	selected := make([]cycle.Subject, 0, len(engineSubjects))
	for _, sub := range engineSubjects {
		if _, ok := settings.SubjectSettings[sub.ID]; ok {
			selected = append(selected, sub)
		}
	}

	sessions, err := cycle.GenerateCycle(cycle.GenerateParams{
		StudyHoursPerWeek: settings.StudyHoursPerWeek,
		MinSessionMinutes: settings.MinSessionMinutes,
		MaxSessionMinutes: settings.MaxSessionMinutes,
		SubjectSettings:   settings.SubjectSettings,
		SelectedSubjects:  selected,
	}, scores)
	if errors.Is(err, cycle.ErrNoTopicScores) || errors.Is(err, cycle.ErrNoEligibleTopics) || errors.Is(err, cycle.ErrInsufficientBudget) {
		return nil, &AdvisoryError{Message: err.Error()}
	}
	if err != nil {
		return nil, err
	}

	planning.ResetForGeneration(settings, sessions, time.Now())

	if err := s.planRepo.SavePlanning(ctx, planID, userID, planning); err != nil {
		return nil, err
	}
	return planning, nil
}

// RemoveCycle discards the current cycle and zeroes the snapshot. Settings
// survive so the next generation starts from the same knobs.
func (s *PlannerService) RemoveCycle(ctx context.Context, userID, planID uuid.UUID) (*models.PlanningRecord, error) {
	planning, err := s.loadPlanning(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	planning.Cycle = nil
	planning.Progress = cycle.EmptySnapshot(nil)

	if err := s.planRepo.SavePlanning(ctx, planID, userID, planning); err != nil {
		return nil, err
	}
	return planning, nil
}

// UpdateSessions applies a manual reorder or duration edit. The edited list
// must contain exactly the sessions of the stored cycle; progress is
// recomputed against the new layout immediately.
func (s *PlannerService) UpdateSessions(ctx context.Context, userID, planID uuid.UUID, sessions []cycle.StudySession) (*models.PlanningRecord, error) {
	planning, err := s.loadPlanning(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(planning.Cycle))
	for _, sess := range planning.Cycle {
		existing[sess.ID] = true
	}
	if len(sessions) != len(planning.Cycle) {
		return nil, &ValidationError{Fields: map[string]string{"sessions": "must contain every session of the current cycle"}}
	}
	for _, sess := range sessions {
		if !existing[sess.ID] {
			return nil, &ValidationError{Fields: map[string]string{"sessions": fmt.Sprintf("unknown or duplicate session id %s", sess.ID)}}
		}
		delete(existing, sess.ID)
		if sess.DurationMinutes <= 0 {
			return nil, &ValidationError{Fields: map[string]string{"sessions": "durations must be positive"}}
		}
	}

	planning.Cycle = sessions

	records, err := s.recordRepo.ListByPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	planning.Progress = cycle.ComputeProgress(sessions, models.EngineRecords(records), planning.Progress.GeneratedAt)

	if err := s.planRepo.SavePlanning(ctx, planID, userID, planning); err != nil {
		return nil, err
	}
	return planning, nil
}

// Planning returns the stored planning blob as-is.
func (s *PlannerService) Planning(ctx context.Context, userID, planID uuid.UUID) (*models.PlanningRecord, error) {
	return s.loadPlanning(ctx, userID, planID)
}

// SaveSettings persists the generation knobs without touching the cycle.
func (s *PlannerService) SaveSettings(ctx context.Context, userID, planID uuid.UUID, settings models.PlanSettings) (*models.PlanningRecord, error) {
	if fields := validateSettings(settings); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	planning, err := s.loadPlanning(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	planning.Settings = settings
	if err := s.planRepo.SavePlanning(ctx, planID, userID, planning); err != nil {
		return nil, err
	}
	return planning, nil
}

// RecomputeProgress re-runs attribution for the plan, persists the snapshot,
// and publishes it to the user's event channel. When the completed-cycle
// count increased, the published event carries both the 100% projection and
// the rolled-over snapshot so the client can play the two-phase reveal.
func (s *PlannerService) RecomputeProgress(ctx context.Context, userID, planID uuid.UUID) (cycle.ProgressSnapshot, error) {
	planning, err := s.loadPlanning(ctx, userID, planID)
	if err != nil {
		return cycle.EmptySnapshot(nil), err
	}

	records, err := s.recordRepo.ListByPlan(ctx, planID, userID)
	if err != nil {
		return cycle.EmptySnapshot(nil), err
	}

	previous := planning.Progress
	snapshot := cycle.ComputeProgress(planning.Cycle, models.EngineRecords(records), previous.GeneratedAt)
	planning.Progress = snapshot

	if err := s.planRepo.SavePlanning(ctx, planID, userID, planning); err != nil {
		return cycle.EmptySnapshot(nil), err
	}

	if snapshot.CompletedCycles > previous.CompletedCycles {
		s.publish(ctx, userID, models.WSMessage{
			Type: "cycle_completed",
			Payload: models.CycleCompletedEvent{
				PlanID:          planID,
				CompletedCycles: snapshot.CompletedCycles,
				Projection:      cycle.CompletionProjection(planning.Cycle, snapshot),
				Progress:        snapshot,
			},
		})
	} else {
		s.publish(ctx, userID, models.WSMessage{
			Type:    "progress_updated",
			Payload: models.ProgressUpdatedEvent{PlanID: planID, Progress: snapshot},
		})
	}

	return snapshot, nil
}

// EnqueueRecompute records a job row and pushes it onto the worker queue.
// Called on every study-record mutation.
func (s *PlannerService) EnqueueRecompute(ctx context.Context, userID, planID uuid.UUID, referenceID string) {
	job := &models.Job{
		UserID:      userID,
		PlanID:      planID,
		Type:        models.JobProgressRecompute,
		ReferenceID: referenceID,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		log.Printf("Failed to create recompute job for plan %s: %v", planID, err)
		return
	}

	payload, _ := json.Marshal(job)
	if err := s.queue.RPush(ctx, RecomputeQueue, payload).Err(); err != nil {
		log.Printf("Failed to enqueue recompute job %s: %v", job.ID, err)
	}
}

func (s *PlannerService) loadPlanning(ctx context.Context, userID, planID uuid.UUID) (*models.PlanningRecord, error) {
	planning, err := s.planRepo.GetPlanning(ctx, planID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Plan not found"}
	}
	return planning, err
}

func (s *PlannerService) loadSyllabus(ctx context.Context, userID, planID uuid.UUID) ([]*models.Subject, []*models.StudyRecord, error) {
	subjects, err := s.subjectRepo.ListByPlan(ctx, planID, userID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.recordRepo.ListByPlan(ctx, planID, userID)
	if err != nil {
		return nil, nil, err
	}
	return subjects, records, nil
}

func (s *PlannerService) publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	channel := fmt.Sprintf("user:%s:events", userID)
	if err := s.queue.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("Failed to publish %s event for user %s: %v", msg.Type, userID, err)
	}
}

func validateSettings(settings models.PlanSettings) map[string]string {
	fields := map[string]string{}
	if settings.StudyHoursPerWeek <= 0 {
		fields["study_hours_per_week"] = "must be greater than zero"
	}
	if settings.MinSessionMinutes <= 0 {
		fields["min_session_minutes"] = "must be greater than zero"
	}
	if settings.MaxSessionMinutes <= 0 {
		fields["max_session_minutes"] = "must be greater than zero"
	}
	if settings.MinSessionMinutes > settings.MaxSessionMinutes {
		fields["min_session_minutes"] = "must not exceed max_session_minutes"
	}
	for id, ss := range settings.SubjectSettings {
		if ss.Importance < 1 || ss.Importance > 5 || ss.Knowledge < 1 || ss.Knowledge > 5 {
			fields["subject_settings"] = fmt.Sprintf("importance and knowledge for subject %s must be between 1 and 5", id)
		}
	}
	return fields
}
