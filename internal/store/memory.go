package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is a process-local Repository. It backs tests and
// deployments with no database configured.
type MemoryRepository struct {
	mu         sync.RWMutex
	interviews map[string]*Interview
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{interviews: make(map[string]*Interview)}
}

func (r *MemoryRepository) Create(_ context.Context, iv *Interview) error {
	applyDefaults(iv)
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *iv
	r.interviews[iv.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	iv, ok := r.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *iv
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Interview, 0, len(r.interviews))
	for _, iv := range r.interviews {
		cp := *iv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok {
		return ErrNotFound
	}
	iv.Status = status
	return nil
}
