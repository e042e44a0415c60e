package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ouroboros-backend/internal/models"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

func (r *ReviewRepo) CreateBatch(ctx context.Context, reviews []*models.ReviewRecord) error {
	for _, rev := range reviews {
		rev.ID = uuid.New()
		rev.Status = models.ReviewPending

		err := r.pool.QueryRow(ctx, `
			INSERT INTO review_records
				(id, study_record_id, plan_id, user_id, subject_id, subject_name,
				 topic_text, interval_days, scheduled_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at
		`, rev.ID, rev.StudyRecordID, rev.PlanID, rev.UserID, rev.SubjectID,
			rev.SubjectName, rev.TopicText, rev.IntervalDays, rev.ScheduledDate, rev.Status,
		).Scan(&rev.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListByPlan returns the plan's reviews; with dueBefore set, only pending
// reviews scheduled at or before that day.
func (r *ReviewRepo) ListByPlan(ctx context.Context, planID, userID uuid.UUID, dueBefore *time.Time) ([]*models.ReviewRecord, error) {
	query := `
		SELECT id, study_record_id, plan_id, user_id, subject_id, subject_name,
		       topic_text, interval_days, scheduled_date, status, completed_at, created_at
		FROM review_records WHERE plan_id = $1 AND user_id = $2`
	args := []any{planID, userID}
	if dueBefore != nil {
		query += " AND status = 'pending' AND scheduled_date <= $3"
		args = append(args, *dueBefore)
	}
	query += " ORDER BY scheduled_date, created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.ReviewRecord
	for rows.Next() {
		rev := &models.ReviewRecord{}
		if err := rows.Scan(
			&rev.ID, &rev.StudyRecordID, &rev.PlanID, &rev.UserID, &rev.SubjectID,
			&rev.SubjectName, &rev.TopicText, &rev.IntervalDays, &rev.ScheduledDate,
			&rev.Status, &rev.CompletedAt, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepo) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) error {
	query := "UPDATE review_records SET status = $1 WHERE id = $2 AND user_id = $3"
	if status == models.ReviewCompleted {
		query = "UPDATE review_records SET status = $1, completed_at = NOW() WHERE id = $2 AND user_id = $3"
	}
	tag, err := r.pool.Exec(ctx, query, status, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
