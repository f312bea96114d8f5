package services

import (
	"context"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/observability"
)

// CacheInvalidationService clears the local availability cache when another
// instance broadcasts an invalidation. Without it, an admin clear on one
// instance would leave the others stale until their TTL expires.
type CacheInvalidationService struct {
	cache  providers.AvailabilityCache
	bus    providers.EventBus
	ctx    context.Context
	cancel context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.AvailabilityCache, bus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:  cache,
		bus:    bus,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins listening for invalidation events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.bus.Subscribe(s.ctx, providers.EventChannelAvailability)
	if err != nil {
		return err
	}

	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.CacheEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			// The in-memory cache only supports a full clear; scoped events
			// clear everything too, which just costs one recompute per date.
			s.cache.Clear()
			observability.GetLogger().Info().
				Str("event_id", event.ID).
				Str("scope", event.Scope).
				Msg("availability cache cleared by broadcast")
		}
	}
}
