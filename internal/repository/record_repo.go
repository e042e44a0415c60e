package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ouroboros-backend/internal/models"
)

type RecordRepo struct {
	pool *pgxpool.Pool
}

func NewRecordRepo(pool *pgxpool.Pool) *RecordRepo {
	return &RecordRepo{pool: pool}
}

func (r *RecordRepo) Create(ctx context.Context, rec *models.StudyRecord) error {
	query := `INSERT INTO study_records
		(id, plan_id, user_id, date, subject_id, subject_name, topic_text,
		 study_time_ms, questions_correct, questions_total, count_in_planning,
		 category, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		rec.ID, rec.PlanID, rec.UserID, rec.Date, rec.SubjectID, rec.SubjectName,
		rec.TopicText, rec.StudyTimeMs, rec.QuestionsCorrect, rec.QuestionsTotal,
		rec.CountInPlanning, rec.Category, rec.Comments,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *RecordRepo) ListByPlan(ctx context.Context, planID, userID uuid.UUID) ([]*models.StudyRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, plan_id, user_id, date, subject_id, subject_name, topic_text,
		       study_time_ms, questions_correct, questions_total, count_in_planning,
		       category, comments, created_at, updated_at
		FROM study_records WHERE plan_id = $1 AND user_id = $2
		ORDER BY date, id
	`, planID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.StudyRecord
	for rows.Next() {
		rec := &models.StudyRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.PlanID, &rec.UserID, &rec.Date, &rec.SubjectID, &rec.SubjectName,
			&rec.TopicText, &rec.StudyTimeMs, &rec.QuestionsCorrect, &rec.QuestionsTotal,
			&rec.CountInPlanning, &rec.Category, &rec.Comments, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *RecordRepo) GetByID(ctx context.Context, id string, userID uuid.UUID) (*models.StudyRecord, error) {
	rec := &models.StudyRecord{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, plan_id, user_id, date, subject_id, subject_name, topic_text,
		       study_time_ms, questions_correct, questions_total, count_in_planning,
		       category, comments, created_at, updated_at
		FROM study_records WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(
		&rec.ID, &rec.PlanID, &rec.UserID, &rec.Date, &rec.SubjectID, &rec.SubjectName,
		&rec.TopicText, &rec.StudyTimeMs, &rec.QuestionsCorrect, &rec.QuestionsTotal,
		&rec.CountInPlanning, &rec.Category, &rec.Comments, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update changes the editable fields; the id (and its embedded creation
// timestamp) never changes.
func (r *RecordRepo) Update(ctx context.Context, rec *models.StudyRecord) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE study_records SET
			date = $1, subject_id = $2, subject_name = $3, topic_text = $4,
			study_time_ms = $5, questions_correct = $6, questions_total = $7,
			count_in_planning = $8, category = $9, comments = $10, updated_at = NOW()
		WHERE id = $11 AND user_id = $12
	`, rec.Date, rec.SubjectID, rec.SubjectName, rec.TopicText,
		rec.StudyTimeMs, rec.QuestionsCorrect, rec.QuestionsTotal,
		rec.CountInPlanning, rec.Category, rec.Comments, rec.ID, rec.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record; its review_records rows go with it via FK
// cascade.
func (r *RecordRepo) Delete(ctx context.Context, id string, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM study_records WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
