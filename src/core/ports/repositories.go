// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live under src/infra. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"marketplace/src/core/domain"
)

// Repository is the base interface for all repositories.
// Concrete repositories should embed this and add aggregate-specific methods.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// ClassifiedAdRepository persists the projected state of classified ads.
type ClassifiedAdRepository interface {
	Repository

	Exists(ctx context.Context, id domain.ClassifiedAdID) (bool, error)
	// Load returns a NotFound domain error when no ad has the given id.
	Load(ctx context.Context, id domain.ClassifiedAdID) (*domain.ClassifiedAd, error)
	// Save stores the projection, appends the pending changes to the change log
	// where the store keeps one, and clears them from the aggregate. It returns
	// the changes it drained, in the order they were raised.
	Save(ctx context.Context, ad *domain.ClassifiedAd) ([]domain.ClassifiedAdEvent, error)
}

// UserProfileRepository persists user profiles.
type UserProfileRepository interface {
	Repository

	Exists(ctx context.Context, id domain.UserID) (bool, error)
	Load(ctx context.Context, id domain.UserID) (*domain.UserProfile, error)
	Save(ctx context.Context, profile *domain.UserProfile) ([]domain.UserProfileEvent, error)
}
