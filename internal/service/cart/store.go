// internal/service/cart/store.go
package cart

import (
	"context"
	"sync"

	"bookdesk-service/internal/domain/cart"
	"bookdesk-service/internal/domain/device"
	xerrors "bookdesk-service/internal/pkg/errors"
	"bookdesk-service/internal/pkg/metrics"
	"bookdesk-service/internal/pkg/pubsub"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultFetchConcurrency = 8

// Backend is the authoritative cart. *CartService implements it.
type Backend interface {
	GetOrCreateCart(ctx context.Context) (*cart.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]cart.LineItem, error)
	AddItem(ctx context.Context, cartID, deviceID int64, quantity int) error
	UpdateItem(ctx context.Context, cartID, deviceID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID, deviceID int64) error
	ClearItems(ctx context.Context, cartID int64) error
}

// DeviceLookup loads product details for a line item.
type DeviceLookup interface {
	GetDevice(ctx context.Context, id int64) (*device.Device, error)
}

// Listener receives the cart view after the detailed items change.
type Listener func(view cart.CartView)

// Store keeps a product enriched projection of the server cart. It never
// edits items locally: every mutation is followed by a full refetch.
type Store struct {
	mu            sync.RWMutex
	cart          *cart.Cart
	detailedItems []cart.DetailedItem
	seq           uint64
	changes       pubsub.Ordered[cart.CartView]

	backend     Backend
	devices     DeviceLookup
	concurrency int
	logger      *zap.Logger
}

func NewStore(backend Backend, devices DeviceLookup, concurrency int, logger *zap.Logger) *Store {
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend:     backend,
		devices:     devices,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *Store) OnChange(l Listener) {
	s.changes.Subscribe(l)
}

// FetchCart loads (or creates) the cart and then its detailed items.
func (s *Store) FetchCart(ctx context.Context) error {
	c, err := s.backend.GetOrCreateCart(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart = c
	s.mu.Unlock()

	return s.FetchDetailedCartItems(ctx)
}

// FetchDetailedCartItems reloads the raw items and enriches each one with its
// device concurrently. The result keeps the raw item order. If any lookup
// fails the previous items are kept.
func (s *Store) FetchDetailedCartItems(ctx context.Context) error {
	cartID, ok := s.cartID()
	if !ok {
		return nil
	}

	items, err := s.backend.ListItems(ctx, cartID)
	if err != nil {
		return err
	}

	detailed := make([]cart.DetailedItem, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			d, err := s.devices.GetDevice(gctx, item.DeviceID)
			if err != nil {
				return err
			}
			detailed[i] = cart.DetailedItem{
				Device:     *d,
				LineItemID: item.ID,
				DeviceID:   item.DeviceID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.CartEnrichFailures.Inc()
		s.logger.Warn("cart enrichment failed, keeping previous items",
			zap.Int64("cart_id", cartID),
			zap.Int("items", len(items)),
			zap.Error(err),
		)
		return err
	}

	s.mu.Lock()
	s.detailedItems = detailed
	view, seq := s.changedLocked()
	s.mu.Unlock()

	s.changes.Publish(seq, view)
	return nil
}

// AddToCart creates the cart on first use, adds the device and refetches.
func (s *Store) AddToCart(ctx context.Context, deviceID int64, quantity int) error {
	if quantity <= 0 {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "quantity must be positive")
	}
	if _, ok := s.cartID(); !ok {
		c, err := s.backend.GetOrCreateCart(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.cart = c
		s.mu.Unlock()
	}

	cartID, _ := s.cartID()
	if err := s.backend.AddItem(ctx, cartID, deviceID, quantity); err != nil {
		return err
	}
	return s.FetchCart(ctx)
}

// UpdateQuantity sets the quantity of a device; zero or less removes it.
func (s *Store) UpdateQuantity(ctx context.Context, deviceID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, deviceID)
	}
	cartID, ok := s.cartID()
	if !ok {
		return xerrors.ErrNoCart
	}
	if err := s.backend.UpdateItem(ctx, cartID, deviceID, quantity); err != nil {
		return err
	}
	return s.FetchCart(ctx)
}

func (s *Store) RemoveFromCart(ctx context.Context, deviceID int64) error {
	cartID, ok := s.cartID()
	if !ok {
		return xerrors.ErrNoCart
	}
	if err := s.backend.RemoveItem(ctx, cartID, deviceID); err != nil {
		return err
	}
	return s.FetchCart(ctx)
}

func (s *Store) ClearCart(ctx context.Context) error {
	cartID, ok := s.cartID()
	if !ok {
		return xerrors.ErrNoCart
	}
	if err := s.backend.ClearItems(ctx, cartID); err != nil {
		return err
	}
	return s.FetchCart(ctx)
}

// Reset forgets the cart, e.g. after logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.cart = nil
	s.detailedItems = nil
	view, seq := s.changedLocked()
	s.mu.Unlock()

	s.changes.Publish(seq, view)
}

func (s *Store) Cart() *cart.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	c := *s.cart
	return &c
}

func (s *Store) Items() []cart.DetailedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]cart.DetailedItem, len(s.detailedItems))
	copy(items, s.detailedItems)
	return items
}

// TotalAmount is the sum of unit price times quantity over the items.
func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalOf(s.detailedItems)
}

func (s *Store) View() cart.CartView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Store) cartID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil || s.cart.ID == 0 {
		return 0, false
	}
	return s.cart.ID, true
}

func (s *Store) viewLocked() cart.CartView {
	items := make([]cart.DetailedItem, len(s.detailedItems))
	copy(items, s.detailedItems)

	view := cart.CartView{
		Items:       items,
		ItemCount:   len(items),
		TotalAmount: totalOf(items),
	}
	if s.cart != nil {
		c := *s.cart
		view.Cart = &c
	}
	return view
}

func (s *Store) changedLocked() (cart.CartView, uint64) {
	s.seq++
	return s.viewLocked(), s.seq
}

func totalOf(items []cart.DetailedItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
