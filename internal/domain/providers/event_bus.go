package providers

import (
	"context"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// cache-invalidation events across running instances.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.CacheEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CacheEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelAvailability carries availability-cache invalidations.
const EventChannelAvailability = "availability:invalidate"

// CacheScopeAll marks an invalidation that clears every cached date.
const CacheScopeAll = "*"
