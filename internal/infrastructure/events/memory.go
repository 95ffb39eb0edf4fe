package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// MemoryBus fans events out in-process. Sends never block: when a
// subscriber's buffer is full the oldest pending event is dropped, so slow
// readers still end up with the latest snapshot.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan Event
	nextID int
	closed bool
	log    *zap.Logger
}

// NewMemoryBus creates an in-process bus
func NewMemoryBus(log *zap.Logger) *MemoryBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemoryBus{
		subs: make(map[string]map[int]chan Event),
		log:  log,
	}
}

func (b *MemoryBus) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	for _, ch := range b.subs[event.Topic] {
		deliver(ch, event, b.log)
	}
	return nil
}

func deliver(ch chan Event, event Event, log *zap.Logger) {
	select {
	case ch <- event:
		return
	default:
	}

	select {
	case dropped := <-ch:
		log.Debug("subscriber lagging, dropped event",
			zap.String("topic", dropped.Topic),
			zap.String("kind", dropped.Kind))
	default:
	}

	select {
	case ch <- event:
	default:
	}
}

func (b *MemoryBus) Subscribe(topic string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[topic][id]; ok {
				delete(b.subs[topic], id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Close ends every subscription
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for topic, subs := range b.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(b.subs, topic)
	}
	return nil
}
