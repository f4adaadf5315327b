// Package inmem provides an in-memory implementation of server/dao, used
// for tests and for running the server without a data directory.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/physunits/server/dao"
	"github.com/google/uuid"
)

// NewDatastore creates a new in-memory dao.Store.
func NewDatastore() dao.Store {
	return &store{
		evals: &EvaluationsRepository{evals: make(map[uuid.UUID]dao.Evaluation)},
	}
}

type store struct {
	evals *EvaluationsRepository
}

func (s *store) Evaluations() dao.EvaluationRepository {
	return s.evals
}

func (s *store) Close() error {
	return nil
}

// EvaluationsRepository is an in-memory dao.EvaluationRepository.
type EvaluationsRepository struct {
	mu    sync.Mutex
	evals map[uuid.UUID]dao.Evaluation
}

func (r *EvaluationsRepository) Create(ctx context.Context, e dao.Evaluation) (dao.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Evaluation{}, fmt.Errorf("could not generate ID: %w", err)
	}

	e.ID = newUUID
	e.Created = time.Now()
	r.evals[e.ID] = e

	return e, nil
}

func (r *EvaluationsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.evals[id]
	if !ok {
		return dao.Evaluation{}, dao.ErrNotFound
	}
	return e, nil
}

func (r *EvaluationsRepository) GetAll(ctx context.Context, notBefore, notAfter *time.Time) ([]dao.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []dao.Evaluation
	for _, e := range r.evals {
		if notBefore != nil && e.Created.Before(*notBefore) {
			continue
		}
		if notAfter != nil && e.Created.After(*notAfter) {
			continue
		}
		all = append(all, e)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Created.After(all[j].Created)
	})

	return all, nil
}

func (r *EvaluationsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.evals[id]
	if !ok {
		return dao.Evaluation{}, dao.ErrNotFound
	}
	delete(r.evals, id)
	return e, nil
}

func (r *EvaluationsRepository) Close() error {
	return nil
}
