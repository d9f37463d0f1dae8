// Package memory is the in-memory profile store, used for dev mode and
// tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"fever-tracker/internal/domain/profiles"
)

type profilesRepo struct {
	mu   sync.RWMutex
	byID map[string]profiles.Profile
}

func NewProfilesRepo() profiles.Repository {
	return &profilesRepo{
		byID: make(map[string]profiles.Profile),
	}
}

func (r *profilesRepo) Create(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("profile already exists")
	}
	r.byID[p.ID] = clone(p)
	return nil
}

func (r *profilesRepo) Update(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.byID[p.ID]; !exists {
		return profiles.ErrNotFound
	}
	r.byID[p.ID] = clone(p)
	return nil
}

func (r *profilesRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return profiles.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *profilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return clone(p), nil
}

func (r *profilesRepo) List(ctx context.Context) ([]profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profiles.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clone(p))
	}

	// Stable order by creation time for consistent listings.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *profilesRepo) ReplaceAll(ctx context.Context, ps []profiles.Profile) error {
	next := make(map[string]profiles.Profile, len(ps))
	for _, p := range ps {
		if strings.TrimSpace(p.ID) == "" {
			return errors.New("profile id required")
		}
		next[p.ID] = clone(p)
	}

	r.mu.Lock()
	r.byID = next
	r.mu.Unlock()
	return nil
}

// clone deep-copies the slices so callers can't mutate stored state through
// shared backing arrays.
func clone(p profiles.Profile) profiles.Profile {
	out := p
	out.History = make([]profiles.Entry, len(p.History))
	copy(out.History, p.History)
	if p.Episodes != nil {
		out.Episodes = make([]profiles.Episode, len(p.Episodes))
		copy(out.Episodes, p.Episodes)
	}
	return out
}
