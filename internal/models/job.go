package models

import (
	"time"

	"github.com/google/uuid"
)

// JobProgressRecompute is the only job type the worker pool consumes today.
const JobProgressRecompute = "progress-recompute"

// Job tracks one queued background task. The row is the source of truth for
// status; the redis queue only carries the serialized job.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	PlanID       uuid.UUID  `json:"plan_id"`
	Type         string     `json:"type"`
	ReferenceID  string     `json:"reference_id"` // study record id the mutation touched, if any
	Status       string     `json:"status"`       // "pending" | "processing" | "completed" | "failed"
	RetryCount   int        `json:"retry_count"`
	MaxRetries   int        `json:"max_retries"`
	ErrorMessage *string    `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// WebSocket message envelope pushed over the per-user channel.
type WSMessage struct {
	Type    string      `json:"type"` // "progress_updated" | "cycle_completed"
	Payload interface{} `json:"payload"`
}

// ProgressUpdatedEvent carries the freshly recomputed snapshot.
type ProgressUpdatedEvent struct {
	PlanID   uuid.UUID   `json:"plan_id"`
	Progress interface{} `json:"progress"`
}

// CycleCompletedEvent carries both phases of the completion reveal: the
// client animates Projection (everything at 100%), then applies Progress,
// the true rolled-over snapshot.
type CycleCompletedEvent struct {
	PlanID          uuid.UUID   `json:"plan_id"`
	CompletedCycles int         `json:"completed_cycles"`
	Projection      interface{} `json:"projection"`
	Progress        interface{} `json:"progress"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
