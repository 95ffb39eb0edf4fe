package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RelaysEventsForClientStore(t *testing.T) {
	bus := events.NewMemoryBus(nil)
	defer bus.Close()
	hub := NewHub(bus, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	storeID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, storeID, uuid.New())
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	other, err := events.NewEvent(events.TopicCatalogChanged, events.KindMenuSynced, uuid.New(), map[string]int{"items": 1}, time.Now())
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, other))

	mine, err := events.NewEvent(events.TopicConfigChanged, events.KindPOSConfigUpdated, storeID, map[string]string{"currency": "EUR"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, mine))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got events.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, events.KindPOSConfigUpdated, got.Kind)
	assert.Equal(t, storeID, got.StoreID)
	assert.JSONEq(t, `{"currency":"EUR"}`, string(got.Snapshot))
}

func TestHub_ServeAfterStop(t *testing.T) {
	bus := events.NewMemoryBus(nil)
	defer bus.Close()
	hub := NewHub(bus, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	errs := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errs <- hub.ServeWS(w, r, uuid.New(), uuid.New())
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err == nil {
		conn.Close()
	}
	assert.ErrorIs(t, <-errs, ErrHubStopped)
}
