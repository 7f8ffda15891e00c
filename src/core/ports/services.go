package ports

import (
	"context"
	"fmt"

	"marketplace/src/core/domain"
)

// ExternalService is the base interface for external service adapters.
type ExternalService interface {
	// Health checks if the external service is reachable.
	Health(ctx context.Context) error
}

// Event is anything an aggregate raises that can be handed to a publisher.
type Event interface {
	EventType() string
}

// Envelope is a committed event with a stable message id. The id is derived
// from the aggregate and the event's position in its change log, so publishing
// the same commit twice yields the same ids.
type Envelope struct {
	ID    string
	Event Event
}

// Seal wraps events committed by one save. version is the aggregate version
// after the save, so events[i] sits at position version-len(events)+i+1.
func Seal(aggregateID string, version int64, events []Event) []Envelope {
	first := version - int64(len(events)) + 1
	out := make([]Envelope, len(events))
	for i, e := range events {
		out[i] = Envelope{
			ID:    fmt.Sprintf("%s-%d", aggregateID, first+int64(i)),
			Event: e,
		}
	}
	return out
}

// EventPublisher hands committed events to the outside world.
// Envelopes are published in the order given.
type EventPublisher interface {
	ExternalService
	Publish(ctx context.Context, envelopes ...Envelope) error
}

// ClassifiedAdView is the read model served by queries.
// Version is the ad's version the view was built from.
type ClassifiedAdView struct {
	ID         string  `json:"id"`
	OwnerID    string  `json:"owner_id"`
	ApprovedBy *string `json:"approved_by,omitempty"`
	Title      *string `json:"title,omitempty"`
	Text       *string `json:"text,omitempty"`
	Price      *string `json:"price,omitempty"`
	Currency   *string `json:"currency,omitempty"`
	State      string  `json:"state"`
	Version    int64   `json:"version"`
}

// ClassifiedAdCache caches read models. A miss is (nil, nil).
type ClassifiedAdCache interface {
	ExternalService
	Get(ctx context.Context, id domain.ClassifiedAdID) (*ClassifiedAdView, error)
	// Set stores view unless the cache already holds the same or a newer
	// version of the ad. A skipped write is not an error.
	Set(ctx context.Context, view *ClassifiedAdView) error
	Invalidate(ctx context.Context, id domain.ClassifiedAdID) error
}
