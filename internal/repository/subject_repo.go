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

type SubjectRepo struct {
	pool *pgxpool.Pool
}

func NewSubjectRepo(pool *pgxpool.Pool) *SubjectRepo {
	return &SubjectRepo{pool: pool}
}

func (r *SubjectRepo) Create(ctx context.Context, s *models.Subject) error {
	s.ID = uuid.New()

	topics, err := json.Marshal(s.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topic tree: %w", err)
	}

	query := `INSERT INTO subjects (id, plan_id, user_id, name, color, topics, position)
		VALUES ($1, $2, $3, $4, $5, $6,
			COALESCE((SELECT MAX(position) + 1 FROM subjects WHERE plan_id = $2), 0))
		RETURNING position, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, s.ID, s.PlanID, s.UserID, s.Name, s.Color, topics).
		Scan(&s.Position, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SubjectRepo) ListByPlan(ctx context.Context, planID, userID uuid.UUID) ([]*models.Subject, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, plan_id, user_id, name, color, topics, position, created_at, updated_at
		FROM subjects WHERE plan_id = $1 AND user_id = $2 ORDER BY position
	`, planID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Subject, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, plan_id, user_id, name, color, topics, position, created_at, updated_at
		FROM subjects WHERE id = $1 AND user_id = $2
	`, id, userID)

	s, err := scanSubject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update saves name, color, and the topic tree. A rename also propagates the
// denormalized subject name onto historical study and review records, which
// only ever reference the subject by id.
func (r *SubjectRepo) Update(ctx context.Context, s *models.Subject) error {
	topics, err := json.Marshal(s.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topic tree: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE subjects SET name = $1, color = $2, topics = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`, s.Name, s.Color, topics, s.ID, s.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		"UPDATE study_records SET subject_name = $1 WHERE subject_id = $2 AND user_id = $3",
		s.Name, s.ID, s.UserID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		"UPDATE review_records SET subject_name = $1 WHERE subject_id = $2 AND user_id = $3",
		s.Name, s.ID, s.UserID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *SubjectRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM subjects WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (*models.Subject, error) {
	s := &models.Subject{}
	var topics []byte
	if err := row.Scan(&s.ID, &s.PlanID, &s.UserID, &s.Name, &s.Color, &topics, &s.Position, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(topics, &s.Topics); err != nil {
		return nil, fmt.Errorf("failed to parse topic tree: %w", err)
	}
	return s, nil
}
