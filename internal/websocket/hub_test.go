package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	wstypes "bookdesk-service/internal/domain/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type echoHandler struct{ calls int }

func (h *echoHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeNotificationClear}
}

func (h *echoHandler) HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	h.calls++
	return nil
}

func next(t *testing.T, c *Client) *wstypes.WSMessage {
	t.Helper()
	select {
	case raw := <-c.send:
		msg, err := wstypes.ParseMessage(raw)
		require.NoError(t, err)
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message queued")
		return nil
	}
}

func TestClientDefaultChannels(t *testing.T) {
	c := NewClient(NewHub(zap.NewNop()), nil)

	assert.True(t, c.IsSubscribed(wstypes.ChannelNotifications))
	assert.True(t, c.IsSubscribed(wstypes.ChannelConfirm))
	assert.True(t, c.IsSubscribed(wstypes.ChannelSession))
	assert.False(t, c.IsSubscribed(wstypes.ChannelCart))
	assert.False(t, c.Subscribe("audit"))
}

func TestRegisterSendsWelcomeAndSnapshots(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.RegisterSnapshot(wstypes.ChannelConfirm, func() *wstypes.WSMessage {
		return wstypes.NewMessage(wstypes.EventTypeConfirmState, map[string]bool{"visible": false})
	})
	c := NewClient(hub, nil)

	hub.registerClient(c)

	assert.Equal(t, wstypes.EventTypeConnected, next(t, c).Type)
	assert.Equal(t, wstypes.EventTypeConfirmState, next(t, c).Type)
	assert.Equal(t, 1, hub.TotalClients())
}

func TestBroadcastOnlyToSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	b.Subscribe(wstypes.ChannelCart)
	hub.clients[a.id] = a
	hub.clients[b.id] = b

	hub.BroadcastMessage(&BroadcastMessage{
		Channel: wstypes.ChannelCart,
		Message: wstypes.NewMessage(wstypes.EventTypeCartUpdated, nil),
	})

	assert.Equal(t, wstypes.EventTypeCartUpdated, next(t, b).Type)
	assert.Empty(t, a.send)
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish(wstypes.ChannelSchedule, wstypes.EventTypeScheduleRefresh, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with nobody draining the queue")
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}

func TestHandleMessage(t *testing.T) {
	hub := NewHub(zap.NewNop())
	h := &echoHandler{}
	hub.RegisterHandler(h)
	hub.RegisterSnapshot(wstypes.ChannelSchedule, func() *wstypes.WSMessage {
		return wstypes.NewMessage(wstypes.EventTypeScheduleRefresh, nil)
	})
	c := NewClient(hub, nil)

	c.handleMessage([]byte(`{"type":"notification:clear"}`))
	assert.Equal(t, 1, h.calls)
	assert.Empty(t, c.send)

	c.handleMessage([]byte(`{"type":"ping"}`))
	assert.Equal(t, wstypes.EventTypePong, next(t, c).Type)

	c.handleMessage([]byte(`{"type":"subscribe","data":{"channels":["schedule","bogus"]}}`))
	ack := next(t, c)
	assert.Equal(t, wstypes.EventTypeSubscribe, ack.Type)
	raw, _ := json.Marshal(ack.Data)
	assert.JSONEq(t, `{"channels":["schedule"],"status":"subscribed"}`, string(raw))
	assert.Equal(t, wstypes.EventTypeScheduleRefresh, next(t, c).Type)
	assert.True(t, c.IsSubscribed(wstypes.ChannelSchedule))

	c.handleMessage([]byte(`not json`))
	assert.Equal(t, wstypes.EventTypeError, next(t, c).Type)

	c.handleMessage([]byte(`{"type":"mystery"}`))
	assert.Equal(t, wstypes.EventTypeError, next(t, c).Type)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewClient(NewHub(zap.NewNop()), nil)
	c.Close()
	c.Close()

	// closed clients swallow sends
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypePing, nil))
}
