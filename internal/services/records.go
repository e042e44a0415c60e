package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ouroboros-backend/internal/models"
	"ouroboros-backend/internal/repository"
)

// RecordInput is the editable surface of a study record.
type RecordInput struct {
	Date             time.Time `json:"date"`
	SubjectID        uuid.UUID `json:"subject_id"`
	TopicText        string    `json:"topic_text"`
	StudyTimeMs      int64     `json:"study_time_ms"`
	QuestionsCorrect int       `json:"questions_correct"`
	QuestionsTotal   int       `json:"questions_total"`
	CountInPlanning  bool      `json:"count_in_planning"`
	Category         string    `json:"category"`
	Comments         *string   `json:"comments"`
	ScheduleReviews  bool      `json:"schedule_reviews"`
}

// RecordService owns study-record CRUD and the side effects hanging off it:
// review scheduling on save and progress-recompute jobs on every mutation.
type RecordService struct {
	recordRepo  *repository.RecordRepo
	reviewRepo  *repository.ReviewRepo
	subjectRepo *repository.SubjectRepo
	planner     *PlannerService
}

func NewRecordService(
	recordRepo *repository.RecordRepo,
	reviewRepo *repository.ReviewRepo,
	subjectRepo *repository.SubjectRepo,
	planner *PlannerService,
) *RecordService {
	return &RecordService{
		recordRepo:  recordRepo,
		reviewRepo:  reviewRepo,
		subjectRepo: subjectRepo,
		planner:     planner,
	}
}

// checkSubjectPlan rejects a subject reference from another plan. A record's
// plan never changes, so the subject it points at must live in that plan on
// create and on every edit; a cross-plan reference would make the record
// invisible to both plans' scoring and attribution.
func checkSubjectPlan(subject *models.Subject, planID uuid.UUID) error {
	if subject.PlanID != planID {
		return &ValidationError{Fields: map[string]string{"subject_id": "subject belongs to a different plan"}}
	}
	return nil
}

func (s *RecordService) validate(input RecordInput) map[string]string {
	fields := map[string]string{}
	if input.Date.IsZero() {
		fields["date"] = "date is required"
	}
	if input.SubjectID == uuid.Nil {
		fields["subject_id"] = "subject_id is required"
	}
	if input.TopicText == "" {
		fields["topic_text"] = "topic_text is required"
	}
	if input.StudyTimeMs < 0 {
		fields["study_time_ms"] = "must not be negative"
	}
	if input.QuestionsCorrect < 0 || input.QuestionsTotal < 0 || input.QuestionsCorrect > input.QuestionsTotal {
		fields["questions"] = "correct count must be between 0 and total"
	}
	return fields
}

// Create saves a new record with a time-sortable id, schedules its reviews if
// requested, and queues a progress recompute.
func (s *RecordService) Create(ctx context.Context, userID, planID uuid.UUID, input RecordInput) (*models.StudyRecord, error) {
	if fields := s.validate(input); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	subject, err := s.subjectRepo.GetByID(ctx, input.SubjectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Subject not found"}
	}
	if err != nil {
		return nil, err
	}
	if err := checkSubjectPlan(subject, planID); err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &models.StudyRecord{
		ID:               models.NewStudyRecordID(now),
		PlanID:           planID,
		UserID:           userID,
		Date:             input.Date,
		SubjectID:        input.SubjectID,
		SubjectName:      subject.Name,
		TopicText:        input.TopicText,
		StudyTimeMs:      input.StudyTimeMs,
		QuestionsCorrect: input.QuestionsCorrect,
		QuestionsTotal:   input.QuestionsTotal,
		CountInPlanning:  input.CountInPlanning,
		Category:         input.Category,
		Comments:         input.Comments,
	}
	if err := s.recordRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	if input.ScheduleReviews {
		if err := s.reviewRepo.CreateBatch(ctx, ScheduleReviews(rec)); err != nil {
			return nil, err
		}
	}

	s.planner.EnqueueRecompute(ctx, userID, planID, rec.ID)
	return rec, nil
}

// Update edits a record's data fields. The id, and with it the creation
// timestamp the attributor filters on, never changes.
func (s *RecordService) Update(ctx context.Context, userID uuid.UUID, recordID string, input RecordInput) (*models.StudyRecord, error) {
	if fields := s.validate(input); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	rec, err := s.recordRepo.GetByID(ctx, recordID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Study record not found"}
	}
	if err != nil {
		return nil, err
	}

	subject, err := s.subjectRepo.GetByID(ctx, input.SubjectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Subject not found"}
	}
	if err != nil {
		return nil, err
	}
	if err := checkSubjectPlan(subject, rec.PlanID); err != nil {
		return nil, err
	}

	rec.Date = input.Date
	rec.SubjectID = input.SubjectID
	rec.SubjectName = subject.Name
	rec.TopicText = input.TopicText
	rec.StudyTimeMs = input.StudyTimeMs
	rec.QuestionsCorrect = input.QuestionsCorrect
	rec.QuestionsTotal = input.QuestionsTotal
	rec.CountInPlanning = input.CountInPlanning
	rec.Category = input.Category
	rec.Comments = input.Comments

	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.planner.EnqueueRecompute(ctx, userID, rec.PlanID, rec.ID)
	return rec, nil
}

// Delete removes a record (review rows cascade with it) and queues a
// recompute.
func (s *RecordService) Delete(ctx context.Context, userID uuid.UUID, recordID string) error {
	rec, err := s.recordRepo.GetByID(ctx, recordID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Message: "Study record not found"}
	}
	if err != nil {
		return err
	}

	if err := s.recordRepo.Delete(ctx, recordID, userID); err != nil {
		return err
	}

	s.planner.EnqueueRecompute(ctx, userID, rec.PlanID, rec.ID)
	return nil
}
