// internal/websocket/handler/confirm.go
package handlers

import (
	"context"
	"fmt"

	wstypes "bookdesk-service/internal/domain/websocket"
	service "bookdesk-service/internal/service/confirm"
	ws "bookdesk-service/internal/websocket"
)

// ConfirmHandler resolves the pending dialog from a client's button press.
type ConfirmHandler struct {
	broker *service.Broker
}

func NewConfirmHandler(broker *service.Broker) *ConfirmHandler {
	return &ConfirmHandler{broker: broker}
}

func (h *ConfirmHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeConfirmAccept,
		wstypes.EventTypeConfirmCancel,
		wstypes.EventTypeConfirmState,
	}
}

func (h *ConfirmHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeConfirmAccept:
		if !h.broker.Confirm() {
			client.SendError("no_pending_request", "Nothing to confirm", "")
		}
		return nil

	case wstypes.EventTypeConfirmCancel:
		if !h.broker.Cancel() {
			client.SendError("no_pending_request", "Nothing to cancel", "")
		}
		return nil

	case wstypes.EventTypeConfirmState:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConfirmState, h.broker.State()))
		return nil

	default:
		return fmt.Errorf("%w: %s", ws.ErrUnsupportedEvent, msg.Type)
	}
}
