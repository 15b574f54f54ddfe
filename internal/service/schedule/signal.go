// internal/service/schedule/signal.go
package schedule

import (
	"sync"
	"time"

	"bookdesk-service/internal/domain/schedule"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Signal is the process wide "schedule changed" broadcast. Observers watch
// RefreshTrigger and reload; each reload must be idempotent because signals
// can be dropped for slow subscribers.
type Signal struct {
	mu      sync.Mutex
	current schedule.RefreshSignal
	subs    map[int]chan schedule.RefreshSignal
	nextSub int
	now     func() time.Time
	logger  *zap.Logger
}

func NewSignal(logger *zap.Logger) *Signal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Signal{
		subs:   make(map[int]chan schedule.RefreshSignal),
		now:    time.Now,
		logger: logger,
	}
}

// TriggerRefresh stamps a new refresh trigger and records entity.
func (s *Signal) TriggerRefresh(kind schedule.UpdateType, entity schedule.UpdatedEntity) schedule.RefreshSignal {
	s.mu.Lock()
	now := s.now()
	stamp := now.UnixMilli()
	if stamp <= s.current.RefreshTrigger {
		stamp = s.current.RefreshTrigger + 1
	}
	entity.UpdatedAt = now
	s.current = schedule.RefreshSignal{
		RefreshTrigger:    stamp,
		UpdateType:        kind,
		LastUpdatedEntity: &entity,
	}
	snapshot := s.snapshotLocked()
	for id, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
			s.logger.Debug("schedule subscriber lagging, signal dropped", zap.Int("subscriber", id))
		}
	}
	s.mu.Unlock()

	return snapshot
}

func (s *Signal) NotifyAppointmentCreated(entity schedule.UpdatedEntity) schedule.RefreshSignal {
	return s.TriggerRefresh(schedule.UpdateCreate, entity)
}

func (s *Signal) NotifyAppointmentUpdated(entity schedule.UpdatedEntity) schedule.RefreshSignal {
	return s.TriggerRefresh(schedule.UpdateUpdate, entity)
}

func (s *Signal) NotifyAppointmentDeleted(id int64) schedule.RefreshSignal {
	return s.TriggerRefresh(schedule.UpdateDelete, schedule.UpdatedEntity{ID: id})
}

func (s *Signal) NotifyStatusChanged(id int64, status schedule.AppointmentStatus) schedule.RefreshSignal {
	return s.TriggerRefresh(schedule.UpdateStatusChange, schedule.UpdatedEntity{ID: id, Status: status})
}

// Current returns the latest signal.
func (s *Signal) Current() schedule.RefreshSignal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving every new signal and a func that
// stops the subscription and closes the channel.
func (s *Signal) Subscribe() (<-chan schedule.RefreshSignal, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan schedule.RefreshSignal, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Signal) snapshotLocked() schedule.RefreshSignal {
	snapshot := s.current
	if s.current.LastUpdatedEntity != nil {
		e := *s.current.LastUpdatedEntity
		snapshot.LastUpdatedEntity = &e
	}
	return snapshot
}
