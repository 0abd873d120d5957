package user

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is the in-process Repository used by tests and by
// deployments that run without postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]User
}

// NewMemoryRepository builds an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: make(map[int64]User)}
}

func (r *MemoryRepository) ByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byID[id]; ok {
		return &u, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ByExternalID(_ context.Context, externalID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.ExternalID == externalID {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ByNickname(_ context.Context, nickname string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Nickname == nickname {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, u *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == 0 {
		for _, existing := range r.byID {
			if existing.ExternalID == u.ExternalID {
				return nil, ErrConflict
			}
		}
		stored := *u
		stored.ID = r.nextID
		r.nextID++
		r.byID[stored.ID] = stored
		return &stored, nil
	}

	if _, ok := r.byID[u.ID]; !ok {
		return nil, ErrNotFound
	}
	for id, existing := range r.byID {
		if id != u.ID && existing.ExternalID == u.ExternalID {
			return nil, ErrConflict
		}
	}
	stored := *u
	r.byID[stored.ID] = stored
	return &stored, nil
}
