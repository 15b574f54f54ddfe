// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// Notification events (server -> client)
	EventTypeNotificationList EventType = "notification:list"

	// Notification events (client -> server)
	EventTypeNotificationDismiss EventType = "notification:dismiss"
	EventTypeNotificationClear   EventType = "notification:clear"

	// Confirmation dialog events
	EventTypeConfirmState  EventType = "confirm:state"
	EventTypeConfirmAccept EventType = "confirm:accept"
	EventTypeConfirmCancel EventType = "confirm:cancel"

	// Session events
	EventTypeSessionChanged EventType = "session:changed"

	// Store events
	EventTypeCartUpdated     EventType = "cart:updated"
	EventTypeScheduleRefresh EventType = "schedule:refresh"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// Subscription channels that clients can subscribe to
type ChannelType string

const (
	ChannelNotifications ChannelType = "notifications"
	ChannelConfirm       ChannelType = "confirm"
	ChannelSession       ChannelType = "session"
	ChannelCart          ChannelType = "cart"
	ChannelSchedule      ChannelType = "schedule"
)

// DefaultChannels are subscribed on connect.
var DefaultChannels = []ChannelType{
	ChannelNotifications,
	ChannelConfirm,
	ChannelSession,
}

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// DismissRequest is sent by the client to close one toast.
type DismissRequest struct {
	ID string `json:"id"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
