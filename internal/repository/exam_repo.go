package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ouroboros-backend/internal/models"
)

type ExamRepo struct {
	pool *pgxpool.Pool
}

func NewExamRepo(pool *pgxpool.Pool) *ExamRepo {
	return &ExamRepo{pool: pool}
}

func (r *ExamRepo) Create(ctx context.Context, e *models.MockExam) error {
	e.ID = uuid.New()

	results, err := json.Marshal(e.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal exam results: %w", err)
	}

	query := `INSERT INTO mock_exams (id, plan_id, user_id, name, style, date, results, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		e.ID, e.PlanID, e.UserID, e.Name, e.Style, e.Date, results, e.Comments,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func (r *ExamRepo) ListByPlan(ctx context.Context, planID, userID uuid.UUID) ([]*models.MockExam, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, plan_id, user_id, name, style, date, results, comments, created_at, updated_at
		FROM mock_exams WHERE plan_id = $1 AND user_id = $2 ORDER BY date DESC
	`, planID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []*models.MockExam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (r *ExamRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.MockExam, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, plan_id, user_id, name, style, date, results, comments, created_at, updated_at
		FROM mock_exams WHERE id = $1 AND user_id = $2
	`, id, userID)

	e, err := scanExam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ExamRepo) Update(ctx context.Context, e *models.MockExam) error {
	results, err := json.Marshal(e.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal exam results: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE mock_exams SET name = $1, style = $2, date = $3, results = $4,
			comments = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
	`, e.Name, e.Style, e.Date, results, e.Comments, e.ID, e.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExamRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM mock_exams WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExam(row rowScanner) (*models.MockExam, error) {
	e := &models.MockExam{}
	var results []byte
	if err := row.Scan(&e.ID, &e.PlanID, &e.UserID, &e.Name, &e.Style, &e.Date,
		&results, &e.Comments, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &e.Results); err != nil {
		return nil, fmt.Errorf("failed to parse exam results: %w", err)
	}
	return e, nil
}
