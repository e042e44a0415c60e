package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ouroboros-backend/internal/cycle"
	"ouroboros-backend/internal/models"
)

// ErrNotFound is returned when a row doesn't exist or belongs to another user.
var ErrNotFound = errors.New("not found")

type PlanRepo struct {
	pool *pgxpool.Pool
}

func NewPlanRepo(pool *pgxpool.Pool) *PlanRepo {
	return &PlanRepo{pool: pool}
}

func (r *PlanRepo) Create(ctx context.Context, p *models.Plan, planning *models.PlanningRecord) error {
	p.ID = uuid.New()

	blob, err := json.Marshal(planning)
	if err != nil {
		return fmt.Errorf("failed to marshal planning record: %w", err)
	}

	query := `INSERT INTO plans (id, user_id, name, exam_date, planning)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query, p.ID, p.UserID, p.Name, p.ExamDate, blob).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PlanRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Plan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, exam_date, created_at, updated_at
		FROM plans WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		p := &models.Plan{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.ExamDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *PlanRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Plan, error) {
	p := &models.Plan{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, exam_date, created_at, updated_at
		FROM plans WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.ExamDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlanRepo) Update(ctx context.Context, p *models.Plan) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE plans SET name = $1, exam_date = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`, p.Name, p.ExamDate, p.ID, p.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PlanRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM plans WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPlanning loads the opaque planning blob (settings, cycle, progress).
func (r *PlanRepo) GetPlanning(ctx context.Context, planID, userID uuid.UUID) (*models.PlanningRecord, error) {
	var blob []byte
	err := r.pool.QueryRow(ctx,
		"SELECT planning FROM plans WHERE id = $1 AND user_id = $2", planID, userID,
	).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	planning := &models.PlanningRecord{}
	if err := json.Unmarshal(blob, planning); err != nil {
		return nil, fmt.Errorf("failed to parse planning record: %w", err)
	}
	if planning.Settings.MinSessionMinutes == 0 {
		planning.Settings = models.DefaultPlanSettings()
	} else if planning.Settings.SubjectSettings == nil {
		planning.Settings.SubjectSettings = map[string]cycle.SubjectSetting{}
	}
	return planning, nil
}

// SavePlanning replaces the planning blob wholesale.
func (r *PlanRepo) SavePlanning(ctx context.Context, planID, userID uuid.UUID, planning *models.PlanningRecord) error {
	blob, err := json.Marshal(planning)
	if err != nil {
		return fmt.Errorf("failed to marshal planning record: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE plans SET planning = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, blob, planID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
