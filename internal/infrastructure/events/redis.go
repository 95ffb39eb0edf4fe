package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/sangkips/brewpos-api/internal/config"
	"go.uber.org/zap"
)

const channelPrefix = "brewpos:events:"

// RedisBus shares events between API instances through Redis pub/sub.
// Publish only writes to Redis; events reach local subscribers when they
// come back through the pattern subscription, so every instance sees the
// same order.
type RedisBus struct {
	client *redis.Client
	pubsub *redis.PubSub
	local  *MemoryBus
	cancel context.CancelFunc
	done   chan struct{}
	log    *zap.Logger
}

// NewRedisClient builds a client from the events configuration
func NewRedisClient(cfg *config.EventsConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.RedisAddr),
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
}

// NewRedisBus subscribes to every event channel and starts forwarding
// messages to local subscribers
func NewRedisBus(ctx context.Context, client *redis.Client, log *zap.Logger) (*RedisBus, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	pubsub := client.PSubscribe(ctx, channelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	b := &RedisBus{
		client: client,
		pubsub: pubsub,
		local:  NewMemoryBus(log),
		cancel: cancel,
		done:   make(chan struct{}),
		log:    log,
	}
	go b.forward(runCtx)
	return b, nil
}

func (b *RedisBus) forward(ctx context.Context) {
	defer close(b.done)
	msgs := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			_ = b.local.Publish(ctx, event)
		}
	}
}

func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, channelPrefix+event.Topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", event.Topic, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(topic string) (<-chan Event, func()) {
	return b.local.Subscribe(topic)
}

// Close stops forwarding and closes local subscriptions. The Redis client
// itself is owned by the caller.
func (b *RedisBus) Close() error {
	b.cancel()
	err := b.pubsub.Close()
	<-b.done
	_ = b.local.Close()
	return err
}
