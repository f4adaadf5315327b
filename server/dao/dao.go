// Package dao provides data access objects for use in the physunits server.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds the repositories used by the server.
type Store interface {
	Evaluations() EvaluationRepository
	Close() error
}

// Evaluation is one persisted evaluation: the expression text that was
// parsed, and the REZI-encoded quantity.Value it evaluated to (see
// quantity.Value.Encode).
type Evaluation struct {
	ID         uuid.UUID
	Expression string
	Result     []byte
	Created    time.Time
}

// EvaluationRepository stores and retrieves Evaluations.
type EvaluationRepository interface {
	Create(ctx context.Context, eval Evaluation) (Evaluation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Evaluation, error)

	// GetAll retrieves Evaluations in descending order of Created. If
	// notBefore is non-nil, only ones on or after that time are included. If
	// notAfter is non-nil, only ones on or before that time are included.
	GetAll(ctx context.Context, notBefore *time.Time, notAfter *time.Time) ([]Evaluation, error)
	Delete(ctx context.Context, id uuid.UUID) (Evaluation, error)
	Close() error
}
