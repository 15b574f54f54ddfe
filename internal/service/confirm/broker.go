// internal/service/confirm/broker.go
package confirm

import (
	"context"
	"sync"

	"bookdesk-service/internal/domain/confirm"
	xerrors "bookdesk-service/internal/pkg/errors"
	"bookdesk-service/internal/pkg/metrics"
	"bookdesk-service/internal/pkg/pubsub"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OverlapPolicy decides what a Request does while another is unresolved.
type OverlapPolicy int

const (
	// OverlapReject refuses the new request with ErrRequestPending.
	OverlapReject OverlapPolicy = iota
	// OverlapReplace overwrites the visible descriptor. The earlier caller is
	// never resolved and only returns when its context ends.
	OverlapReplace
)

type kindDefaults struct {
	title      string
	icon       string
	styleClass string
}

var defaults = map[confirm.Kind]kindDefaults{
	confirm.KindSuccess: {title: "Confirm", icon: "check-circle", styleClass: "btn-success"},
	confirm.KindError:   {title: "Are you sure?", icon: "times-circle", styleClass: "btn-danger"},
	confirm.KindWarning: {title: "Please confirm", icon: "exclamation-triangle", styleClass: "btn-warning"},
	confirm.KindInfo:    {title: "Confirm", icon: "info-circle", styleClass: "btn-info"},
}

const (
	defaultConfirmLabel = "Confirm"
	defaultCancelLabel  = "Cancel"
)

// Pending is the caller's handle on an unresolved request.
type Pending struct {
	id     string
	result chan bool
}

func (p *Pending) ID() string { return p.id }

// Wait blocks until the request is confirmed or cancelled, or ctx ends.
func (p *Pending) Wait(ctx context.Context) (bool, error) {
	select {
	case ok := <-p.result:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Listener receives the dialog state after every change.
type Listener func(state confirm.State)

// Broker is a single slot request/response channel for yes/no decisions.
type Broker struct {
	mu      sync.Mutex
	visible bool
	current *confirm.Request
	pending *Pending
	seq     uint64
	changes pubsub.Ordered[confirm.State]
	policy  OverlapPolicy
	logger  *zap.Logger
}

func NewBroker(logger *zap.Logger, policy OverlapPolicy) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broker{policy: policy, logger: logger}
}

// OnChange registers a listener. Listeners must not call back into the
// broker synchronously.
func (b *Broker) OnChange(l Listener) {
	b.changes.Subscribe(l)
}

// Request shows a dialog built from opts and returns a handle to await.
func (b *Broker) Request(opts confirm.Options) (*Pending, error) {
	req := merge(opts)
	p := &Pending{id: req.ID, result: make(chan bool, 1)}

	b.mu.Lock()
	if b.pending != nil {
		if b.policy == OverlapReject {
			pendingID := b.pending.id
			b.mu.Unlock()
			b.logger.Warn("confirmation request rejected, another is pending",
				zap.String("pending_id", pendingID),
			)
			return nil, xerrors.ErrRequestPending
		}
		b.logger.Warn("confirmation request replaced an unresolved one",
			zap.String("orphaned_id", b.pending.id),
		)
		metrics.ConfirmOutcomes.WithLabelValues("orphaned").Inc()
	}
	b.current = req
	b.pending = p
	b.visible = true
	state, seq := b.changedLocked()
	b.mu.Unlock()

	b.changes.Publish(seq, state)
	return p, nil
}

// Ask is Request followed by Wait. If ctx ends first the dialog is closed.
func (b *Broker) Ask(ctx context.Context, opts confirm.Options) (bool, error) {
	p, err := b.Request(opts)
	if err != nil {
		return false, err
	}
	return b.Await(ctx, p)
}

// Await waits on p and closes its dialog if ctx ends first.
func (b *Broker) Await(ctx context.Context, p *Pending) (bool, error) {
	ok, err := p.Wait(ctx)
	if err != nil {
		b.abandon(p)
		return false, err
	}
	return ok, nil
}

// Confirm resolves the pending request with true.
func (b *Broker) Confirm() bool { return b.resolve(true, "confirmed") }

// Cancel resolves the pending request with false.
func (b *Broker) Cancel() bool { return b.resolve(false, "cancelled") }

// Close dismisses the dialog; the pending request resolves with false.
func (b *Broker) Close() bool { return b.resolve(false, "closed") }

// State returns what the presentation layer should render.
func (b *Broker) State() confirm.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Broker) resolve(ok bool, outcome string) bool {
	b.mu.Lock()
	p := b.pending
	b.visible = false
	b.pending = nil
	b.current = nil
	state, seq := b.changedLocked()
	b.mu.Unlock()

	b.changes.Publish(seq, state)
	if p == nil {
		return false
	}
	p.result <- ok
	metrics.ConfirmOutcomes.WithLabelValues(outcome).Inc()
	return true
}

// abandon clears the slot if p still owns it.
func (b *Broker) abandon(p *Pending) {
	b.mu.Lock()
	if b.pending != p {
		b.mu.Unlock()
		return
	}
	b.visible = false
	b.pending = nil
	b.current = nil
	state, seq := b.changedLocked()
	b.mu.Unlock()

	metrics.ConfirmOutcomes.WithLabelValues("abandoned").Inc()
	b.changes.Publish(seq, state)
}

func (b *Broker) stateLocked() confirm.State {
	state := confirm.State{Visible: b.visible}
	if b.current != nil {
		req := *b.current
		state.Request = &req
	}
	return state
}

func (b *Broker) changedLocked() (confirm.State, uint64) {
	b.seq++
	return b.stateLocked(), b.seq
}

func merge(opts confirm.Options) *confirm.Request {
	kind := opts.Kind
	d, ok := defaults[kind]
	if !ok {
		kind = confirm.KindWarning
		d = defaults[kind]
	}

	req := &confirm.Request{
		ID:           uuid.NewString(),
		Title:        opts.Title,
		Message:      opts.Message,
		Kind:         kind,
		ConfirmLabel: opts.ConfirmLabel,
		CancelLabel:  opts.CancelLabel,
		StyleClass:   opts.StyleClass,
		Icon:         opts.Icon,
	}
	if req.Title == "" {
		req.Title = d.title
	}
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = defaultConfirmLabel
	}
	if req.CancelLabel == "" {
		req.CancelLabel = defaultCancelLabel
	}
	if req.StyleClass == "" {
		req.StyleClass = d.styleClass
	}
	if req.Icon == "" {
		req.Icon = d.icon
	}
	return req
}
