// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "bookdesk-service/internal/domain/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapshotFunc produces the current state of a channel. It is sent to a
// client right after it subscribes so late joiners start in sync.
type SnapshotFunc func() *wstypes.WSMessage

type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	handlerRegistry *HandlerRegistry

	snapMu    sync.RWMutex
	snapshots map[wstypes.ChannelType]SnapshotFunc

	logger *zap.Logger
}

type BroadcastMessage struct {
	Channel wstypes.ChannelType
	Message *wstypes.WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[string]*Client),
		Register:        make(chan *Client),
		unregister:      make(chan *Client, 16),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		snapshots:       make(map[wstypes.ChannelType]SnapshotFunc),
		logger:          logger,
	}
}

// NewClientID returns a fresh connection id.
func NewClientID() string {
	return uuid.NewString()
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// RegisterSnapshot sets the state provider for a channel.
func (h *Hub) RegisterSnapshot(channel wstypes.ChannelType, fn SnapshotFunc) {
	h.snapMu.Lock()
	defer h.snapMu.Unlock()
	h.snapshots[channel] = fn
}

func (h *Hub) snapshot(channel wstypes.ChannelType) *wstypes.WSMessage {
	h.snapMu.RLock()
	fn, ok := h.snapshots[channel]
	h.snapMu.RUnlock()
	if !ok {
		return nil
	}
	return fn()
}

// HandleClientMessage processes a message from a client using registered handlers.
// handled is false when no handler owns the event type.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (handled bool, err error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("client_id", client.id),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"client_id": client.id,
		"channels":  client.Channels(),
	}))
	for _, channel := range client.Channels() {
		if msg := h.snapshot(channel); msg != nil {
			client.SendMessage(msg)
		}
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		client.Close()

		h.logger.Info("websocket client disconnected",
			zap.String("client_id", client.id),
			zap.Int("total", len(h.clients)),
		)
	}
}

// BroadcastMessage delivers msg to every client subscribed to its channel.
func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.IsSubscribed(msg.Channel) {
			client.SendMessage(msg.Message)
		}
	}
}

// Publish queues an event for broadcast. It never blocks: when the queue is
// full the event is dropped, since every event carries full state and the
// next one supersedes it.
func (h *Hub) Publish(channel wstypes.ChannelType, eventType wstypes.EventType, data interface{}) {
	msg := &BroadcastMessage{
		Channel: channel,
		Message: wstypes.NewMessage(eventType, data),
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, event dropped",
			zap.String("channel", string(channel)),
			zap.String("type", string(eventType)),
		)
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
}
