// internal/service/notification/service.go
package notification

import (
	"sync"
	"time"

	"bookdesk-service/internal/domain/notification"
	"bookdesk-service/internal/pkg/metrics"
	"bookdesk-service/internal/pkg/pubsub"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	DefaultDuration = 3 * time.Second
	DefaultCooldown = 1 * time.Second

	// MaxDuration bounds how long a notification may stay up, which also
	// keeps duration+cooldown far from overflowing.
	MaxDuration = time.Hour
)

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func())

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) { fn(d, f) }

var timerScheduler = SchedulerFunc(func(d time.Duration, f func()) {
	time.AfterFunc(d, f)
})

// Listener receives the active list after every change.
type Listener func(active []notification.Notification)

type entry struct {
	notification.Notification
	key string
	gen uint64
}

// Registry is the queue of visible notifications with (title, message)
// de-duplication. A key stays suppressed while its notification is visible
// and for a cooldown after it expires.
type Registry struct {
	mu         sync.Mutex
	active     []entry
	suppressed map[string]uint64 // key -> generation that blocked it
	gen        uint64

	seq     uint64
	changes pubsub.Ordered[[]notification.Notification]

	scheduler Scheduler
	duration  time.Duration
	cooldown  time.Duration
	logger    *zap.Logger
}

type Option func(*Registry)

func WithScheduler(s Scheduler) Option {
	return func(r *Registry) { r.scheduler = s }
}

func WithDefaultDuration(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.duration = min(d, MaxDuration)
		}
	}
}

func WithCooldown(d time.Duration) Option {
	return func(r *Registry) {
		if d >= 0 {
			r.cooldown = min(d, MaxDuration)
		}
	}
}

func NewRegistry(logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		suppressed: make(map[string]uint64),
		scheduler:  timerScheduler,
		duration:   DefaultDuration,
		cooldown:   DefaultCooldown,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnChange registers a listener. Listeners run outside the registry lock and
// receive snapshots in the order the changes happened.
func (r *Registry) OnChange(l Listener) {
	r.changes.Subscribe(l)
}

// Notify shows a notification unless an identical (title, message) pair is
// suppressed. duration <= 0 uses the registry default and anything above
// MaxDuration is capped. The second return value is false when the request
// was dropped.
func (r *Registry) Notify(kind notification.Kind, title, message string, duration time.Duration) (notification.Notification, bool) {
	if !kind.Valid() {
		kind = notification.KindInfo
	}
	if duration <= 0 {
		duration = r.duration
	}
	duration = min(duration, MaxDuration)
	key := notification.Key(title, message)

	r.mu.Lock()
	if _, blocked := r.suppressed[key]; blocked {
		r.mu.Unlock()
		r.logger.Debug("duplicate notification suppressed",
			zap.String("key", key),
			zap.String("kind", string(kind)),
		)
		metrics.NotificationsSuppressed.WithLabelValues(string(kind)).Inc()
		return notification.Notification{}, false
	}

	r.gen++
	e := entry{
		Notification: notification.Notification{
			ID:        ulid.Make().String(),
			Title:     title,
			Message:   message,
			Kind:      kind,
			CreatedAt: time.Now(),
		},
		key: key,
		gen: r.gen,
	}
	r.active = append(r.active, e)
	r.suppressed[key] = e.gen
	active, seq := r.changedLocked()
	r.mu.Unlock()

	r.scheduler.AfterFunc(duration, func() { r.expire(e.ID) })
	r.scheduler.AfterFunc(duration+r.cooldown, func() { r.release(key, e.gen) })

	metrics.NotificationsShown.WithLabelValues(string(kind)).Inc()
	r.changes.Publish(seq, active)
	return e.Notification, true
}

func (r *Registry) Success(title, message string) (notification.Notification, bool) {
	return r.Notify(notification.KindSuccess, title, message, 0)
}

func (r *Registry) Error(title, message string) (notification.Notification, bool) {
	return r.Notify(notification.KindError, title, message, 0)
}

func (r *Registry) Warning(title, message string) (notification.Notification, bool) {
	return r.Notify(notification.KindWarning, title, message, 0)
}

func (r *Registry) Info(title, message string) (notification.Notification, bool) {
	return r.Notify(notification.KindInfo, title, message, 0)
}

// Dismiss removes the notification with id and unblocks its key right away.
// Unknown ids are ignored.
func (r *Registry) Dismiss(id string) bool {
	r.mu.Lock()
	e, ok := r.removeLocked(id)
	if !ok {
		r.mu.Unlock()
		return false
	}
	if r.suppressed[e.key] == e.gen {
		delete(r.suppressed, e.key)
	}
	active, seq := r.changedLocked()
	r.mu.Unlock()

	r.changes.Publish(seq, active)
	return true
}

// Clear drops every notification and every suppressed key.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.active = nil
	r.suppressed = make(map[string]uint64)
	active, seq := r.changedLocked()
	r.mu.Unlock()

	r.changes.Publish(seq, active)
}

// List returns the visible notifications in insertion order.
func (r *Registry) List() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked()
}

// Suppressed reports whether a (title, message) pair would be dropped now.
func (r *Registry) Suppressed(title, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.suppressed[notification.Key(title, message)]
	return ok
}

func (r *Registry) expire(id string) {
	r.mu.Lock()
	if _, ok := r.removeLocked(id); !ok {
		r.mu.Unlock()
		return
	}
	active, seq := r.changedLocked()
	r.mu.Unlock()

	r.changes.Publish(seq, active)
}

// release unblocks key only if it is still held by generation gen, so a
// timer left over from a dismissed notification cannot unblock a newer one.
func (r *Registry) release(key string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.suppressed[key] == gen {
		delete(r.suppressed, key)
	}
}

func (r *Registry) removeLocked(id string) (entry, bool) {
	for i, e := range r.active {
		if e.ID == id {
			r.active = append(r.active[:i:i], r.active[i+1:]...)
			return e, true
		}
	}
	return entry{}, false
}

func (r *Registry) activeLocked() []notification.Notification {
	active := make([]notification.Notification, len(r.active))
	for i, e := range r.active {
		active[i] = e.Notification
	}
	return active
}

// changedLocked stamps a change and returns the snapshot to publish.
func (r *Registry) changedLocked() ([]notification.Notification, uint64) {
	r.seq++
	return r.activeLocked(), r.seq
}
