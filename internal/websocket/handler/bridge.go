// internal/websocket/handler/bridge.go
package handlers

import (
	"context"

	"bookdesk-service/internal/domain/auth"
	"bookdesk-service/internal/domain/cart"
	"bookdesk-service/internal/domain/confirm"
	"bookdesk-service/internal/domain/notification"
	wstypes "bookdesk-service/internal/domain/websocket"
	"bookdesk-service/internal/pkg/session"
	cartservice "bookdesk-service/internal/service/cart"
	confirmservice "bookdesk-service/internal/service/confirm"
	notificationservice "bookdesk-service/internal/service/notification"
	"bookdesk-service/internal/service/schedule"
	ws "bookdesk-service/internal/websocket"

	"go.uber.org/zap"
)

// Sources groups the state holders pushed to websocket clients.
type Sources struct {
	Notifications *notificationservice.Registry
	Confirm       *confirmservice.Broker
	Session       *session.Manager
	Cart          *cartservice.Store
	Schedule      *schedule.Signal
}

func NotificationListMessage(list []notification.Notification) *wstypes.WSMessage {
	return wstypes.NewMessage(wstypes.EventTypeNotificationList, notification.NotificationListResponse{
		Notifications: list,
		Count:         len(list),
	})
}

// Bind subscribes the hub to every source and registers the socket handlers.
// The schedule relay stops when ctx ends.
func Bind(ctx context.Context, hub *ws.Hub, src Sources, logger *zap.Logger) {
	hub.RegisterHandler(NewNotificationHandler(src.Notifications))
	hub.RegisterHandler(NewConfirmHandler(src.Confirm))

	hub.RegisterSnapshot(wstypes.ChannelNotifications, func() *wstypes.WSMessage {
		return NotificationListMessage(src.Notifications.List())
	})
	src.Notifications.OnChange(func(active []notification.Notification) {
		hub.Publish(wstypes.ChannelNotifications, wstypes.EventTypeNotificationList, notification.NotificationListResponse{
			Notifications: active,
			Count:         len(active),
		})
	})

	hub.RegisterSnapshot(wstypes.ChannelConfirm, func() *wstypes.WSMessage {
		return wstypes.NewMessage(wstypes.EventTypeConfirmState, src.Confirm.State())
	})
	src.Confirm.OnChange(func(state confirm.State) {
		hub.Publish(wstypes.ChannelConfirm, wstypes.EventTypeConfirmState, state)
	})

	hub.RegisterSnapshot(wstypes.ChannelSession, func() *wstypes.WSMessage {
		return wstypes.NewMessage(wstypes.EventTypeSessionChanged, src.Session.View())
	})
	src.Session.OnChange(func(v auth.SessionView) {
		hub.Publish(wstypes.ChannelSession, wstypes.EventTypeSessionChanged, v)
	})

	hub.RegisterSnapshot(wstypes.ChannelCart, func() *wstypes.WSMessage {
		return wstypes.NewMessage(wstypes.EventTypeCartUpdated, src.Cart.View())
	})
	src.Cart.OnChange(func(v cart.CartView) {
		hub.Publish(wstypes.ChannelCart, wstypes.EventTypeCartUpdated, v)
	})

	hub.RegisterSnapshot(wstypes.ChannelSchedule, func() *wstypes.WSMessage {
		return wstypes.NewMessage(wstypes.EventTypeScheduleRefresh, src.Schedule.Current())
	})
	signals, stop := src.Schedule.Subscribe()
	go func() {
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				hub.Publish(wstypes.ChannelSchedule, wstypes.EventTypeScheduleRefresh, sig)
			}
		}
	}()

	logger.Info("websocket channels bound")
}
