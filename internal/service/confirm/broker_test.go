package confirm

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookdesk-service/internal/domain/confirm"
	xerrors "bookdesk-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestThenConfirm(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	p, err := b.Request(confirm.Options{Message: "Delete device #4?", Kind: confirm.KindError})
	require.NoError(t, err)

	state := b.State()
	assert.True(t, state.Visible)
	require.NotNil(t, state.Request)
	assert.Equal(t, p.ID(), state.Request.ID)

	assert.True(t, b.Confirm())

	ok, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, b.State().Visible)
	assert.Nil(t, b.State().Request)
}

func TestRequestThenCancel(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	p, err := b.Request(confirm.Options{Message: "Leave page?"})
	require.NoError(t, err)

	assert.True(t, b.Cancel())

	ok, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, b.State().Visible)
}

func TestCloseResolvesFalse(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	p, err := b.Request(confirm.Options{Message: "Discard changes?"})
	require.NoError(t, err)
	assert.True(t, b.Close())

	ok, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveWithoutPendingIsNoop(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	assert.False(t, b.Confirm())
	assert.False(t, b.Cancel())
	assert.False(t, b.State().Visible)
}

func TestExactlyOneResolution(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	p, err := b.Request(confirm.Options{Message: "Proceed?"})
	require.NoError(t, err)

	assert.True(t, b.Confirm())
	assert.False(t, b.Cancel(), "second resolution has nothing to resolve")

	ok, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDefaultsPerKind(t *testing.T) {
	tests := []struct {
		kind      confirm.Kind
		wantKind  confirm.Kind
		wantIcon  string
		wantStyle string
	}{
		{confirm.KindSuccess, confirm.KindSuccess, "check-circle", "btn-success"},
		{confirm.KindError, confirm.KindError, "times-circle", "btn-danger"},
		{confirm.KindWarning, confirm.KindWarning, "exclamation-triangle", "btn-warning"},
		{confirm.KindInfo, confirm.KindInfo, "info-circle", "btn-info"},
		{"", confirm.KindWarning, "exclamation-triangle", "btn-warning"},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantKind), func(t *testing.T) {
			req := merge(confirm.Options{Message: "m", Kind: tt.kind})
			assert.Equal(t, tt.wantKind, req.Kind)
			assert.Equal(t, tt.wantIcon, req.Icon)
			assert.Equal(t, tt.wantStyle, req.StyleClass)
			assert.Equal(t, "Confirm", req.ConfirmLabel)
			assert.Equal(t, "Cancel", req.CancelLabel)
			assert.NotEmpty(t, req.Title)
		})
	}
}

func TestCallerOptionsWinOverDefaults(t *testing.T) {
	req := merge(confirm.Options{
		Title:        "Remove room type",
		Message:      "This cannot be undone",
		Kind:         confirm.KindError,
		ConfirmLabel: "Remove",
		CancelLabel:  "Keep",
		Icon:         "trash",
	})

	assert.Equal(t, "Remove room type", req.Title)
	assert.Equal(t, "Remove", req.ConfirmLabel)
	assert.Equal(t, "Keep", req.CancelLabel)
	assert.Equal(t, "trash", req.Icon)
	assert.Equal(t, "btn-danger", req.StyleClass)
}

func TestOverlapReject(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	first, err := b.Request(confirm.Options{Message: "first"})
	require.NoError(t, err)

	_, err = b.Request(confirm.Options{Message: "second"})
	assert.ErrorIs(t, err, xerrors.ErrRequestPending)
	assert.Equal(t, "first", b.State().Request.Message)

	b.Confirm()
	ok, err := first.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOverlapReplaceOrphansFirstCaller(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReplace)

	first, err := b.Request(confirm.Options{Message: "first"})
	require.NoError(t, err)
	second, err := b.Request(confirm.Options{Message: "second"})
	require.NoError(t, err)

	assert.Equal(t, "second", b.State().Request.Message)
	b.Confirm()

	ok, err := second.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = first.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAskAbandonsOnContextEnd(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := b.Ask(ctx, confirm.Options{Message: "Anyone there?"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, b.State().Visible)

	_, err = b.Request(confirm.Options{Message: "next"})
	assert.NoError(t, err, "slot freed after the caller gave up")
}

func TestAskResolvedFromAnotherGoroutine(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReject)

	states := make(chan confirm.State, 4)
	b.OnChange(func(s confirm.State) { states <- s })

	go func() {
		s := <-states
		if s.Visible {
			b.Confirm()
		}
	}()

	ok, err := b.Ask(context.Background(), confirm.Options{Message: "Check out now?"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLastPublishedStateMatchesBroker(t *testing.T) {
	b := NewBroker(zap.NewNop(), OverlapReplace)

	var (
		mu   sync.Mutex
		last confirm.State
	)
	b.OnChange(func(s confirm.State) {
		mu.Lock()
		last = s
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%3 == 0 {
				b.Cancel()
				return
			}
			_, _ = b.Request(confirm.Options{Message: "again?"})
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, b.State(), last)
}
