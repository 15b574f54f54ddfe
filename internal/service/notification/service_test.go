package notification

import (
	"sort"
	"sync"
	"testing"
	"time"

	"bookdesk-service/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// manualScheduler fires callbacks only when the test advances its clock.
type manualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []task
}

type task struct {
	at  time.Duration
	seq int
	f   func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks = append(s.tasks, task{at: s.now + d, seq: s.seq, f: f})
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, rest []task
	for _, t := range s.tasks {
		if t.at <= s.now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	s.tasks = rest
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	for _, t := range due {
		t.f()
	}
}

func newTestRegistry() (*Registry, *manualScheduler) {
	s := &manualScheduler{}
	return NewRegistry(zap.NewNop(), WithScheduler(s)), s
}

func TestNotify_DropsDuplicateWhileActive(t *testing.T) {
	r, _ := newTestRegistry()

	first, ok := r.Notify(notification.KindSuccess, "Saved", "Device updated", 0)
	require.True(t, ok)
	assert.NotEmpty(t, first.ID)

	_, ok = r.Notify(notification.KindSuccess, "Saved", "Device updated", 0)
	assert.False(t, ok)
	assert.Len(t, r.List(), 1)
}

func TestNotify_SameTitleDifferentMessageIsShown(t *testing.T) {
	r, _ := newTestRegistry()

	_, ok1 := r.Error("Error", "first")
	_, ok2 := r.Error("Error", "second")

	assert.True(t, ok1)
	assert.True(t, ok2)
	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Message)
	assert.Equal(t, "second", list[1].Message)
}

func TestNotify_ExpiryThenCooldown(t *testing.T) {
	r, s := newTestRegistry()

	_, ok := r.Info("Heads up", "maintenance tonight")
	require.True(t, ok)

	s.Advance(DefaultDuration)
	assert.Empty(t, r.List(), "removed after its display duration")

	_, ok = r.Info("Heads up", "maintenance tonight")
	assert.False(t, ok, "still cooling down")
	assert.True(t, r.Suppressed("Heads up", "maintenance tonight"))

	s.Advance(DefaultCooldown)
	assert.False(t, r.Suppressed("Heads up", "maintenance tonight"))

	_, ok = r.Info("Heads up", "maintenance tonight")
	assert.True(t, ok)
	assert.Len(t, r.List(), 1)
}

func TestNotify_CustomDuration(t *testing.T) {
	r, s := newTestRegistry()

	_, ok := r.Notify(notification.KindWarning, "Slow", "backend is slow", 10*time.Second)
	require.True(t, ok)

	s.Advance(DefaultDuration)
	assert.Len(t, r.List(), 1)

	s.Advance(7 * time.Second)
	assert.Empty(t, r.List())
}

func TestNotify_UnknownKindFallsBackToInfo(t *testing.T) {
	r, _ := newTestRegistry()

	n, ok := r.Notify(notification.Kind("loud"), "t", "m", 0)
	require.True(t, ok)
	assert.Equal(t, notification.KindInfo, n.Kind)
}

func TestDismiss_RemovesAndUnblocksImmediately(t *testing.T) {
	r, s := newTestRegistry()

	a, _ := r.Success("A", "a")
	b, _ := r.Success("B", "b")

	assert.True(t, r.Dismiss(a.ID))
	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	again, ok := r.Success("A", "a")
	require.True(t, ok, "key unblocked without waiting for the cooldown")

	// timers from the dismissed notification must not touch the new one
	s.Advance(DefaultDuration + DefaultCooldown - time.Millisecond)
	assert.False(t, r.Dismiss("unknown"))
	_, ok = r.Success("A", "a")
	assert.False(t, ok)
	assert.NotEqual(t, a.ID, again.ID)
}

func TestDismiss_UnknownIDIsNoop(t *testing.T) {
	r, _ := newTestRegistry()
	_, _ = r.Info("x", "y")

	assert.False(t, r.Dismiss("nope"))
	assert.Len(t, r.List(), 1)
}

func TestClear(t *testing.T) {
	r, s := newTestRegistry()
	_, _ = r.Info("x", "y")
	_, _ = r.Info("z", "w")

	r.Clear()
	assert.Empty(t, r.List())
	assert.False(t, r.Suppressed("x", "y"))

	_, ok := r.Info("x", "y")
	assert.True(t, ok)

	// timers from before Clear fire harmlessly alongside the new ones
	s.Advance(DefaultDuration + DefaultCooldown)
	assert.Empty(t, r.List())
}

func TestOnChange_ReceivesSnapshots(t *testing.T) {
	r, s := newTestRegistry()

	var sizes []int
	r.OnChange(func(active []notification.Notification) {
		sizes = append(sizes, len(active))
	})

	_, _ = r.Info("a", "1")
	_, _ = r.Info("b", "2")
	_, _ = r.Info("b", "2") // dropped, no publish
	s.Advance(DefaultDuration)

	assert.Equal(t, []int{1, 2, 1, 0}, sizes)
}

func TestNotify_HugeDurationIsCapped(t *testing.T) {
	r, s := newTestRegistry()
	huge := time.Duration(1<<62) * time.Nanosecond

	_, ok := r.Notify(notification.KindInfo, "Long", "stay", huge)
	require.True(t, ok)
	_, ok = r.Notify(notification.KindInfo, "Long", "stay", huge)
	assert.False(t, ok, "second identical notification must stay suppressed")
	assert.Len(t, r.List(), 1)

	s.Advance(MaxDuration)
	assert.Empty(t, r.List())
	assert.True(t, r.Suppressed("Long", "stay"))

	s.Advance(DefaultCooldown)
	assert.False(t, r.Suppressed("Long", "stay"))
}

func TestOnChange_LastSnapshotMatchesState(t *testing.T) {
	r := NewRegistry(zap.NewNop(), WithScheduler(SchedulerFunc(func(time.Duration, func()) {})))

	var (
		mu   sync.Mutex
		last []notification.Notification
	)
	r.OnChange(func(active []notification.Notification) {
		mu.Lock()
		last = active
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, ok := r.Info("t", string(rune('a'+i%26))+string(rune('a'+i/26)))
			if ok && i%2 == 0 {
				r.Dismiss(n.ID)
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, r.List(), last)
}
