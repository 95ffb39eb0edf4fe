// Package ws pushes bus events to connected POS and admin views over
// websockets.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sangkips/brewpos-api/internal/infrastructure/events"
	"go.uber.org/zap"
)

// ErrHubStopped is returned by ServeWS once Run has returned
var ErrHubStopped = errors.New("ws: hub stopped")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Client is one connected view. It only receives events for its store.
type Client struct {
	ID          string
	StoreID     uuid.UUID
	StaffID     uuid.UUID
	ConnectedAt time.Time

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients and relays bus events to them
type Hub struct {
	bus        events.Bus
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	upgrader   websocket.Upgrader
	mu         sync.RWMutex
	log        *zap.Logger
}

// NewHub creates a hub fed by bus. allowedOrigins empty means any origin.
func NewHub(bus events.Bus, allowedOrigins []string, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Hub{
		bus:        bus,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// Run relays events until ctx is done, then disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	merged := make(chan events.Event, sendBuffer)
	var wg sync.WaitGroup
	for _, topic := range events.Topics {
		ch, cancel := h.bus.Subscribe(topic)
		defer cancel()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case ev, ok := <-ch:
					if !ok {
						return
					}
					select {
					case merged <- ev:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.log.Info("websocket client registered",
				zap.String("client_id", client.ID),
				zap.String("store_id", client.StoreID.String()))

		case client := <-h.unregister:
			h.remove(client)

		case ev := <-merged:
			h.broadcast(ev)
		}
	}
}

func (h *Hub) broadcast(ev events.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to encode event", zap.String("kind", ev.Kind), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if ev.StoreID != uuid.Nil && ev.StoreID != client.StoreID {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Client buffer is full, disconnect
			delete(h.clients, client)
			close(client.send)
			h.log.Warn("dropping slow websocket client", zap.String("client_id", client.ID))
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.log.Info("websocket client unregistered", zap.String("client_id", client.ID))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers a client for storeID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, storeID, staffID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		ID:          uuid.NewString(),
		StoreID:     storeID,
		StaffID:     staffID,
		ConnectedAt: time.Now(),
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump only handles control frames; views never send data
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
