package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gridlive/gridlive/internal/dependencies/random"
	"github.com/gridlive/gridlive/internal/gateway"
)

const (
	connectionIDLength   = 16
	connectionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Dispatcher consumes decoded commands and connection teardowns. The gateway
// implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd gateway.Command) (any, error)
	HandleDisconnect(ctx context.Context, connectionID string) error
}

// Hub owns every live websocket connection and the named groups used for
// addressed broadcast. It implements the gateway's Sender.
type Hub struct {
	random random.Random
	logger *slog.Logger

	// dispatcher is set once at wiring time, before the first connection
	dispatcher Dispatcher

	mu      sync.RWMutex
	clients map[string]*client
	groups  map[string]map[string]*client
}

// NewHub creates a new hub
func NewHub(random random.Random, logger *slog.Logger) *Hub {
	return &Hub{
		random:  random,
		logger:  logger.With(slog.String("component", "ws")),
		clients: make(map[string]*client),
		groups:  make(map[string]map[string]*client),
	}
}

// SetDispatcher binds the command consumer. Must be called before serving.
func (h *Hub) SetDispatcher(d Dispatcher) {
	h.dispatcher = d
}

// Ensure Hub satisfies the gateway's transport capability
var _ gateway.Sender = (*Hub)(nil)

// Handler returns the websocket upgrade endpoint
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed",
				slog.String("error", err.Error()))
			return
		}

		c := &client{
			hub:  h,
			conn: conn,
			send: make(chan []byte, sendBufferSize),
			done: make(chan struct{}),
			id:   "c_" + h.random.String(connectionIDLength, connectionIDAlphabet),
		}

		h.mu.Lock()
		h.clients[c.id] = c
		h.mu.Unlock()

		h.logger.Info("connection opened",
			slog.String("connection_id", c.id))

		go c.writePump()
		go c.readPump()
	}
}

// ConnectionCount reports the number of live connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// handleFrame decodes and dispatches one inbound invocation
func (h *Hub) handleFrame(c *client, frame clientFrame) {
	cmd, err := decodeCommand(c.id, frame)
	if err != nil {
		h.logger.Warn("dropping invocation",
			slog.String("connection_id", c.id),
			slog.String("error", err.Error()))
		return
	}

	result, err := h.dispatcher.Dispatch(context.Background(), cmd)
	if err != nil {
		h.logger.Error("command dispatch failed",
			slog.String("connection_id", c.id),
			slog.String("method", frame.Method),
			slog.String("error", err.Error()))
		return
	}

	if result != nil && frame.ID != "" {
		h.enqueueFrame(c, resultFrame{ID: frame.ID, Result: result})
	}
}

// SendToConnection delivers an event to one connection. Unknown connection
// ids are dropped.
func (h *Hub) SendToConnection(connectionID, event string, data any) {
	h.mu.RLock()
	c, ok := h.clients[connectionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.enqueueFrame(c, eventFrame{Event: event, Data: data})
}

// SendToGroup delivers an event to every connection in a group
func (h *Hub) SendToGroup(group, event string, data any) {
	h.mu.RLock()
	members := make([]*client, 0, len(h.groups[group]))
	for _, c := range h.groups[group] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		h.enqueueFrame(c, eventFrame{Event: event, Data: data})
	}
}

// SendToAll delivers an event to every connection
func (h *Hub) SendToAll(event string, data any) {
	h.mu.RLock()
	all := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.enqueueFrame(c, eventFrame{Event: event, Data: data})
	}
}

// AddToGroup places a connection in a named group. Unknown connection ids
// are dropped.
func (h *Hub) AddToGroup(group, connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connectionID]
	if !ok {
		return
	}
	if h.groups[group] == nil {
		h.groups[group] = make(map[string]*client)
	}
	h.groups[group][connectionID] = c
}

// enqueueFrame marshals and queues one outbound frame. Frames for an
// unregistered client are dropped; a client whose buffer is full is evicted
// rather than allowed to stall the sender.
func (h *Hub) enqueueFrame(c *client, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("marshaling outbound frame",
			slog.String("error", err.Error()))
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		h.logger.Warn("evicting slow client",
			slog.String("connection_id", c.id))
		h.unregister(c)
	}
}

// unregister removes a client from the hub and all groups, fires the
// disconnect hook, and releases the write pump via done. Idempotent; the
// read pump and slow-client eviction may race to call it. Broadcasters
// holding a pre-removal snapshot of the client keep enqueueing safely.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, present := h.clients[c.id]
	if present {
		delete(h.clients, c.id)
		for name, members := range h.groups {
			delete(members, c.id)
			if len(members) == 0 {
				delete(h.groups, name)
			}
		}
	}
	h.mu.Unlock()

	if !present {
		return
	}

	close(c.done)

	h.logger.Info("connection closed",
		slog.String("connection_id", c.id))

	if err := h.dispatcher.HandleDisconnect(context.Background(), c.id); err != nil {
		h.logger.Error("disconnect handling failed",
			slog.String("connection_id", c.id),
			slog.String("error", err.Error()))
	}
}
