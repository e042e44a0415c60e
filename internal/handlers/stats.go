package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"ouroboros-backend/internal/middleware"
)

// StatsHandler serves the dashboard aggregates straight from SQL.
type StatsHandler struct {
	pool *pgxpool.Pool
}

func NewStatsHandler(pool *pgxpool.Pool) *StatsHandler {
	return &StatsHandler{pool: pool}
}

type subjectStats struct {
	SubjectID      uuid.UUID `json:"subject_id"`
	SubjectName    string    `json:"subject_name"`
	StudyTimeMs    int64     `json:"study_time_ms"`
	RecordCount    int       `json:"record_count"`
	QuestionsTotal int       `json:"questions_total"`
	QuestionsRight int       `json:"questions_correct"`
}

func (h *StatsHandler) PlanStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid plan ID", r))
		return
	}
	ctx := r.Context()

	var totalTimeMs int64
	var totalRecords, totalQuestions, totalCorrect int
	h.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(study_time_ms), 0), COUNT(*),
		       COALESCE(SUM(questions_total), 0), COALESCE(SUM(questions_correct), 0)
		FROM study_records
		WHERE plan_id = $1 AND user_id = $2
	`, planID, userID).Scan(&totalTimeMs, &totalRecords, &totalQuestions, &totalCorrect)

	var weeklyQuestions int
	h.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(questions_total), 0)
		FROM study_records
		WHERE plan_id = $1 AND user_id = $2 AND date >= NOW() - INTERVAL '7 days'
	`, planID, userID).Scan(&weeklyQuestions)

	var pendingReviews int
	h.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM review_records
		WHERE plan_id = $1 AND user_id = $2 AND status = 'pending' AND scheduled_date <= NOW()
	`, planID, userID).Scan(&pendingReviews)

	rows, err := h.pool.Query(ctx, `
		SELECT subject_id, subject_name, COALESCE(SUM(study_time_ms), 0), COUNT(*),
		       COALESCE(SUM(questions_total), 0), COALESCE(SUM(questions_correct), 0)
		FROM study_records
		WHERE plan_id = $1 AND user_id = $2
		GROUP BY subject_id, subject_name
		ORDER BY SUM(study_time_ms) DESC
	`, planID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}
	defer rows.Close()

	bySubject := []subjectStats{}
	for rows.Next() {
		var s subjectStats
		if err := rows.Scan(&s.SubjectID, &s.SubjectName, &s.StudyTimeMs, &s.RecordCount,
			&s.QuestionsTotal, &s.QuestionsRight); err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
			return
		}
		bySubject = append(bySubject, s)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_study_time_ms": totalTimeMs,
		"total_records":       totalRecords,
		"total_questions":     totalQuestions,
		"total_correct":       totalCorrect,
		"weekly_questions":    weeklyQuestions,
		"pending_reviews":     pendingReviews,
		"by_subject":          bySubject,
	})
}
