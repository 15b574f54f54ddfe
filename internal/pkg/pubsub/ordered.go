// internal/pkg/pubsub/ordered.go
package pubsub

import "sync"

// Ordered fans state snapshots out to listeners in the order the state
// changed. The owner stamps each snapshot with a sequence number while it
// still holds its own lock; a snapshot older than one already delivered is
// dropped, so the last thing every listener sees is the latest state.
//
// Listeners run one at a time and must not change the owner synchronously.
// The zero value is ready to use.
type Ordered[T any] struct {
	mu        sync.Mutex
	delivered uint64
	listeners []func(T)
}

func (o *Ordered[T]) Subscribe(fn func(T)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

// Publish delivers v unless a newer snapshot went out already. It reports
// whether v was delivered.
func (o *Ordered[T]) Publish(seq uint64, v T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seq <= o.delivered {
		return false
	}
	o.delivered = seq
	for _, fn := range o.listeners {
		fn(v)
	}
	return true
}
