package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/vetordigital/leadfunnel/internal/domain/entities"
	"github.com/vetordigital/leadfunnel/internal/domain/providers"
	redisclient "github.com/vetordigital/leadfunnel/internal/infrastructure/clients/redis"
	"github.com/vetordigital/leadfunnel/internal/infrastructure/observability"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub. It
// fans cache-invalidation events out to every running instance.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string][]chan *entities.CacheEvent
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string][]chan *entities.CacheEvent),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.CacheEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Msg("published cache event")
	return nil
}

// Subscribe subscribes to events on a channel
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CacheEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}

	eventChan := make(chan *entities.CacheEvent, 16)
	b.subscribers[channel] = append(b.subscribers[channel], eventChan)
	return eventChan, nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			observability.GetLogger().Warn().
				Str("channel", channel).
				Err(err).
				Msg("failed to close subscription")
		}
	}
	for _, chans := range b.subscribers {
		for _, ch := range chans {
			close(ch)
		}
	}
	b.subscriptions = make(map[string]*redis.PubSub)
	b.subscribers = make(map[string][]chan *entities.CacheEvent)
	return nil
}

func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	logger := observability.GetLogger()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}

			event := &entities.CacheEvent{}
			if err := json.Unmarshal([]byte(msg.Payload), event); err != nil {
				logger.Warn().Str("channel", channel).Err(err).Msg("dropping malformed cache event")
				continue
			}

			b.mu.Lock()
			chans := append([]chan *entities.CacheEvent(nil), b.subscribers[channel]...)
			b.mu.Unlock()

			for _, ch := range chans {
				select {
				case ch <- event:
				default:
					// Subscriber is not draining; an invalidation dropped here
					// only extends staleness by one TTL.
					logger.Warn().Str("channel", channel).Msg("subscriber channel full, dropping event")
				}
			}
		}
	}
}
