package schedule

import (
	"testing"
	"time"

	"bookdesk-service/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotifyAppointmentDeleted(t *testing.T) {
	s := NewSignal(zap.NewNop())
	before := s.Current().RefreshTrigger

	sig := s.NotifyAppointmentDeleted(42)

	assert.Equal(t, schedule.UpdateDelete, sig.UpdateType)
	require.NotNil(t, sig.LastUpdatedEntity)
	assert.Equal(t, int64(42), sig.LastUpdatedEntity.ID)
	assert.False(t, sig.LastUpdatedEntity.UpdatedAt.IsZero())
	assert.Greater(t, sig.RefreshTrigger, before)
	assert.Equal(t, sig, s.Current())
}

func TestRefreshTriggerStrictlyIncreases(t *testing.T) {
	s := NewSignal(zap.NewNop())
	frozen := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	a := s.NotifyAppointmentCreated(schedule.UpdatedEntity{ID: 1})
	b := s.NotifyAppointmentUpdated(schedule.UpdatedEntity{ID: 1})
	c := s.NotifyStatusChanged(1, schedule.StatusConfirmed)

	assert.Equal(t, frozen.UnixMilli(), a.RefreshTrigger)
	assert.Greater(t, b.RefreshTrigger, a.RefreshTrigger)
	assert.Greater(t, c.RefreshTrigger, b.RefreshTrigger)
	assert.Equal(t, schedule.UpdateStatusChange, c.UpdateType)
	assert.Equal(t, schedule.StatusConfirmed, c.LastUpdatedEntity.Status)
}

func TestSubscribersEachReceiveSignal(t *testing.T) {
	s := NewSignal(zap.NewNop())
	ch1, stop1 := s.Subscribe()
	ch2, stop2 := s.Subscribe()
	defer stop2()

	sig := s.NotifyAppointmentCreated(schedule.UpdatedEntity{ID: 7})

	assert.Equal(t, sig, <-ch1)
	assert.Equal(t, sig, <-ch2)

	stop1()
	stop1() // idempotent
	_, open := <-ch1
	assert.False(t, open)

	s.NotifyAppointmentDeleted(7)
	got := <-ch2
	assert.Equal(t, schedule.UpdateDelete, got.UpdateType)
}

func TestSlowSubscriberDoesNotBlockWriters(t *testing.T) {
	s := NewSignal(zap.NewNop())
	_, stop := s.Subscribe()
	defer stop()

	for i := 0; i < subscriberBuffer*2; i++ {
		s.NotifyAppointmentDeleted(int64(i))
	}
	assert.Equal(t, int64(subscriberBuffer*2-1), s.Current().LastUpdatedEntity.ID)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := NewSignal(zap.NewNop())
	sig := s.NotifyAppointmentDeleted(1)
	sig.LastUpdatedEntity.ID = 99

	assert.Equal(t, int64(1), s.Current().LastUpdatedEntity.ID)
}
