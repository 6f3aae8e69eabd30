// Package memory holds the in-memory job collection. It is the single
// owner of job state at runtime; durability is a write-through snapshot
// handed to a snapshot.Store after every mutation.
package memory

import (
	"context"
	"errors"
	"log"
	"sync"

	"garage-tracker/internal/entity"
	"garage-tracker/internal/repository/snapshot"
)

var ErrNotFound = errors.New("not found")

type JobRepository struct {
	mu    sync.RWMutex
	jobs  []entity.Job
	store snapshot.Store
}

// NewJobRepository loads the last snapshot from store. When the snapshot is
// missing or unreadable it falls back to the given seed jobs and writes an
// initial snapshot. store may be nil in tests (no persistence).
func NewJobRepository(ctx context.Context, store snapshot.Store, seed []entity.Job) *JobRepository {
	r := &JobRepository{store: store}

	if store != nil {
		jobs, err := store.Load(ctx)
		if err != nil {
			log.Printf("[repo] snapshot load failed, using seed data: %v", err)
		} else if len(jobs) > 0 {
			r.jobs = jobs
			return r
		}
	}

	r.jobs = make([]entity.Job, len(seed))
	for i := range seed {
		r.jobs[i] = seed[i].Clone()
	}
	r.persist(ctx)
	return r
}

// GetAll returns a deep copy of the collection in listing order.
func (r *JobRepository) GetAll(ctx context.Context) []entity.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Job, len(r.jobs))
	for i := range r.jobs {
		out[i] = r.jobs[i].Clone()
	}
	return out
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (entity.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.jobs {
		if r.jobs[i].ID == id {
			return r.jobs[i].Clone(), nil
		}
	}
	return entity.Job{}, ErrNotFound
}

// Insert prepends the job so listings stay most-recent-first.
func (r *JobRepository) Insert(ctx context.Context, job entity.Job) error {
	r.mu.Lock()
	r.jobs = append([]entity.Job{job.Clone()}, r.jobs...)
	r.mu.Unlock()

	r.persistLocked(ctx)
	return nil
}

// Replace swaps the stored job with the same id for the given value.
func (r *JobRepository) Replace(ctx context.Context, job entity.Job) error {
	r.mu.Lock()
	found := false
	for i := range r.jobs {
		if r.jobs[i].ID == job.ID {
			r.jobs[i] = job.Clone()
			found = true
			break
		}
	}
	r.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	r.persistLocked(ctx)
	return nil
}

func (r *JobRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Flush re-writes the current snapshot. Used by the periodic flusher.
func (r *JobRepository) Flush(ctx context.Context) {
	r.persistLocked(ctx)
}

func (r *JobRepository) persistLocked(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	r.persist(ctx)
}

// persist writes the snapshot wholesale. Failures are logged and swallowed:
// the in-memory state keeps operating (see error handling design).
func (r *JobRepository) persist(ctx context.Context) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, r.jobs); err != nil {
		log.Printf("[repo] snapshot save failed: %v", err)
	}
}
