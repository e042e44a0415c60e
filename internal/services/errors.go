package services

// Typed service errors, mapped onto HTTP statuses in one place by the
// handlers' handleServiceError.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

// AdvisoryError is a non-fatal empty-result condition: the operation produced
// nothing actionable and the message should be surfaced to the user as a
// warning, not an error page.
type AdvisoryError struct{ Message string }

func (e *AdvisoryError) Error() string { return e.Message }
