// internal/websocket/handler/notification.go
package handlers

import (
	"context"
	"fmt"

	wstypes "bookdesk-service/internal/domain/websocket"
	service "bookdesk-service/internal/service/notification"
	ws "bookdesk-service/internal/websocket"
)

// NotificationHandler lets clients close toasts over the socket.
type NotificationHandler struct {
	registry *service.Registry
}

func NewNotificationHandler(registry *service.Registry) *NotificationHandler {
	return &NotificationHandler{registry: registry}
}

func (h *NotificationHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeNotificationDismiss,
		wstypes.EventTypeNotificationClear,
		wstypes.EventTypeNotificationList,
	}
}

func (h *NotificationHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeNotificationDismiss:
		var req wstypes.DismissRequest
		if err := ws.DecodePayload(msg.Data, &req); err != nil || req.ID == "" {
			client.SendError("invalid_request", "Invalid dismiss request", "id is required")
			return nil
		}
		// unknown ids are ignored; the list broadcast carries the outcome
		h.registry.Dismiss(req.ID)
		return nil

	case wstypes.EventTypeNotificationClear:
		h.registry.Clear()
		return nil

	case wstypes.EventTypeNotificationList:
		client.SendMessage(NotificationListMessage(h.registry.List()))
		return nil

	default:
		return fmt.Errorf("%w: %s", ws.ErrUnsupportedEvent, msg.Type)
	}
}
