package repo

import (
	"context"
	"sync"

	"marketplace/src/core/domain"
	"marketplace/src/core/ports"
)

var (
	_ ports.ClassifiedAdRepository = (*MemoryClassifiedAdRepository)(nil)
	_ ports.UserProfileRepository  = (*MemoryUserProfileRepository)(nil)
)

// MemoryClassifiedAdRepository keeps ad snapshots and their change log in memory.
// Load always returns a fresh aggregate, so callers never share state.
type MemoryClassifiedAdRepository struct {
	mu        sync.RWMutex
	lookup    domain.CurrencyLookup
	snapshots map[domain.ClassifiedAdID]domain.ClassifiedAdSnapshot
	history   map[domain.ClassifiedAdID][]domain.ClassifiedAdEvent
}

func NewMemoryClassifiedAdRepository(lookup domain.CurrencyLookup) *MemoryClassifiedAdRepository {
	return &MemoryClassifiedAdRepository{
		lookup:    lookup,
		snapshots: make(map[domain.ClassifiedAdID]domain.ClassifiedAdSnapshot),
		history:   make(map[domain.ClassifiedAdID][]domain.ClassifiedAdEvent),
	}
}

func (r *MemoryClassifiedAdRepository) Health(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryClassifiedAdRepository) Exists(ctx context.Context, id domain.ClassifiedAdID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.snapshots[id]
	return ok, nil
}

func (r *MemoryClassifiedAdRepository) Load(ctx context.Context, id domain.ClassifiedAdID) (*domain.ClassifiedAd, error) {
	r.mu.RLock()
	snap, ok := r.snapshots[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError("classified ad")
	}
	return domain.RestoreClassifiedAd(snap, r.lookup)
}

func (r *MemoryClassifiedAdRepository) Save(ctx context.Context, ad *domain.ClassifiedAd) ([]domain.ClassifiedAdEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	changes := ad.Changes()

	r.mu.Lock()
	r.snapshots[ad.ID()] = ad.Snapshot()
	r.history[ad.ID()] = append(r.history[ad.ID()], changes...)
	r.mu.Unlock()

	ad.ClearChanges()
	return changes, nil
}

// History returns every event saved for id, oldest first.
func (r *MemoryClassifiedAdRepository) History(id domain.ClassifiedAdID) []domain.ClassifiedAdEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ClassifiedAdEvent, len(r.history[id]))
	copy(out, r.history[id])
	return out
}

// MemoryUserProfileRepository keeps profile snapshots in memory.
type MemoryUserProfileRepository struct {
	mu        sync.RWMutex
	snapshots map[domain.UserID]domain.UserProfileSnapshot
}

func NewMemoryUserProfileRepository() *MemoryUserProfileRepository {
	return &MemoryUserProfileRepository{
		snapshots: make(map[domain.UserID]domain.UserProfileSnapshot),
	}
}

func (r *MemoryUserProfileRepository) Health(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryUserProfileRepository) Exists(ctx context.Context, id domain.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.snapshots[id]
	return ok, nil
}

func (r *MemoryUserProfileRepository) Load(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	r.mu.RLock()
	snap, ok := r.snapshots[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError("user profile")
	}
	return domain.RestoreUserProfile(snap)
}

func (r *MemoryUserProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) ([]domain.UserProfileEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := profile.EnsureValidState(); err != nil {
		return nil, err
	}
	id, _ := profile.ID()
	changes := profile.Changes()

	r.mu.Lock()
	r.snapshots[id] = profile.Snapshot()
	r.mu.Unlock()

	profile.ClearChanges()
	return changes, nil
}
