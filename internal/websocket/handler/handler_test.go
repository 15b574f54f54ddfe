package handlers

import (
	"context"
	"testing"
	"time"

	"bookdesk-service/internal/domain/confirm"
	wstypes "bookdesk-service/internal/domain/websocket"
	confirmservice "bookdesk-service/internal/service/confirm"
	notificationservice "bookdesk-service/internal/service/notification"
	ws "bookdesk-service/internal/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegistry() *notificationservice.Registry {
	return notificationservice.NewRegistry(zap.NewNop(), notificationservice.WithScheduler(
		notificationservice.SchedulerFunc(func(time.Duration, func()) {}),
	))
}

func TestNotificationHandler(t *testing.T) {
	registry := newRegistry()
	h := NewNotificationHandler(registry)
	client := ws.NewClient(ws.NewHub(zap.NewNop()), nil)
	ctx := context.Background()

	a, _ := registry.Warning("Low stock", "Projector")
	_, _ = registry.Info("Heads up", "maintenance")

	err := h.HandleMessage(ctx, client, &wstypes.WSMessage{
		Type: wstypes.EventTypeNotificationDismiss,
		Data: map[string]interface{}{"id": a.ID},
	})
	require.NoError(t, err)
	assert.Len(t, registry.List(), 1)

	// missing id is reported to the client, not returned
	err = h.HandleMessage(ctx, client, &wstypes.WSMessage{Type: wstypes.EventTypeNotificationDismiss})
	assert.NoError(t, err)

	require.NoError(t, h.HandleMessage(ctx, client, &wstypes.WSMessage{Type: wstypes.EventTypeNotificationClear}))
	assert.Empty(t, registry.List())

	err = h.HandleMessage(ctx, client, &wstypes.WSMessage{Type: wstypes.EventTypeConfirmAccept})
	assert.ErrorIs(t, err, ws.ErrUnsupportedEvent)
}

func TestConfirmHandler(t *testing.T) {
	broker := confirmservice.NewBroker(zap.NewNop(), confirmservice.OverlapReject)
	h := NewConfirmHandler(broker)
	client := ws.NewClient(ws.NewHub(zap.NewNop()), nil)
	ctx := context.Background()

	p, err := broker.Request(confirm.Options{Message: "Cancel reservation?"})
	require.NoError(t, err)

	require.NoError(t, h.HandleMessage(ctx, client, &wstypes.WSMessage{Type: wstypes.EventTypeConfirmCancel}))

	ok, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, broker.State().Visible)

	// nothing pending: reported to the client only
	assert.NoError(t, h.HandleMessage(ctx, client, &wstypes.WSMessage{Type: wstypes.EventTypeConfirmAccept}))
}

func TestNotificationListMessage(t *testing.T) {
	registry := newRegistry()
	_, _ = registry.Success("Saved", "ok")

	msg := NotificationListMessage(registry.List())
	assert.Equal(t, wstypes.EventTypeNotificationList, msg.Type)
	assert.NotEmpty(t, msg.ID)
}
