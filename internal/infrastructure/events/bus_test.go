package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Version int `json:"version"`
}

func mustEvent(t *testing.T, topic string, version int) Event {
	t.Helper()
	ev, err := NewEvent(topic, KindPOSConfigUpdated, uuid.New(), snapshot{Version: version}, time.Now())
	require.NoError(t, err)
	return ev
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestMemoryBus_FansOutByTopic(t *testing.T) {
	bus := NewMemoryBus(nil)
	defer bus.Close()

	cfgA, cancelA := bus.Subscribe(TopicConfigChanged)
	defer cancelA()
	cfgB, cancelB := bus.Subscribe(TopicConfigChanged)
	defer cancelB()
	catalog, cancelC := bus.Subscribe(TopicCatalogChanged)
	defer cancelC()

	require.NoError(t, bus.Publish(context.Background(), mustEvent(t, TopicConfigChanged, 1)))

	for _, ch := range []<-chan Event{cfgA, cfgB} {
		ev := receive(t, ch)
		var snap snapshot
		require.NoError(t, json.Unmarshal(ev.Snapshot, &snap))
		assert.Equal(t, 1, snap.Version)
	}
	assert.Len(t, catalog, 0)
}

func TestMemoryBus_SlowSubscriberKeepsLatest(t *testing.T) {
	bus := NewMemoryBus(nil)
	defer bus.Close()
	ch, cancel := bus.Subscribe(TopicConfigChanged)
	defer cancel()

	total := subscriberBuffer + 5
	for i := 1; i <= total; i++ {
		require.NoError(t, bus.Publish(context.Background(), mustEvent(t, TopicConfigChanged, i)))
	}

	require.Len(t, ch, subscriberBuffer)
	var last snapshot
	for len(ch) > 0 {
		require.NoError(t, json.Unmarshal((<-ch).Snapshot, &last))
	}
	assert.Equal(t, total, last.Version)
}

func TestMemoryBus_CancelClosesChannel(t *testing.T) {
	bus := NewMemoryBus(nil)
	ch, cancel := bus.Subscribe(TopicCatalogChanged)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.NoError(t, bus.Publish(context.Background(), mustEvent(t, TopicCatalogChanged, 1)))

	other, _ := bus.Subscribe(TopicCatalogChanged)
	require.NoError(t, bus.Close())
	_, ok = <-other
	assert.False(t, ok)
}

func TestRedisBus_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	bus, err := NewRedisBus(ctx, client, nil)
	require.NoError(t, err)
	defer bus.Close()

	ch, cancel := bus.Subscribe(TopicConfigChanged)
	defer cancel()

	sent := mustEvent(t, TopicConfigChanged, 7)
	require.NoError(t, bus.Publish(ctx, sent))

	got := receive(t, ch)
	assert.Equal(t, sent.Kind, got.Kind)
	assert.Equal(t, sent.StoreID, got.StoreID)
	assert.JSONEq(t, string(sent.Snapshot), string(got.Snapshot))
}
