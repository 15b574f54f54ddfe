// internal/service/cart/service.go
package cart

import (
	"context"
	"fmt"

	"bookdesk-service/internal/apiclient"
	"bookdesk-service/internal/domain/cart"
	xerrors "bookdesk-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// CartService wraps the backend cart endpoints.
type CartService struct {
	api    *apiclient.Client
	logger *zap.Logger
}

func NewCartService(api *apiclient.Client, logger *zap.Logger) *CartService {
	return &CartService{api: api, logger: logger}
}

// GetOrCreateCart returns the caller's open cart, creating one if the
// backend has none.
func (s *CartService) GetOrCreateCart(ctx context.Context) (*cart.Cart, error) {
	var c cart.Cart
	err := s.api.Get(ctx, "/carts/me", nil, &c)
	if err == nil {
		return &c, nil
	}

	var httpErr *xerrors.HTTPError
	if !xerrors.As(err, &httpErr) || httpErr.Status != 404 {
		s.logger.Error("failed to load cart", zap.Error(err))
		return nil, xerrors.Normalize("Load cart", err)
	}

	if err := s.api.Post(ctx, "/carts", struct{}{}, &c); err != nil {
		s.logger.Error("failed to create cart", zap.Error(err))
		return nil, xerrors.Normalize("Create cart", err)
	}
	return &c, nil
}

func (s *CartService) ListItems(ctx context.Context, cartID int64) ([]cart.LineItem, error) {
	var items []cart.LineItem
	if err := s.api.Get(ctx, fmt.Sprintf("/carts/%d/items", cartID), nil, &items); err != nil {
		s.logger.Error("failed to load cart items", zap.Int64("cart_id", cartID), zap.Error(err))
		return nil, xerrors.Normalize("Load cart items", err)
	}
	return items, nil
}

func (s *CartService) AddItem(ctx context.Context, cartID, deviceID int64, quantity int) error {
	body := cart.AddItemRequest{DeviceID: deviceID, Quantity: quantity}
	if err := s.api.Post(ctx, fmt.Sprintf("/carts/%d/items", cartID), body, nil); err != nil {
		s.logger.Error("failed to add cart item",
			zap.Int64("cart_id", cartID),
			zap.Int64("device_id", deviceID),
			zap.Error(err),
		)
		return xerrors.Normalize("Add to cart", err)
	}
	return nil
}

func (s *CartService) UpdateItem(ctx context.Context, cartID, deviceID int64, quantity int) error {
	body := cart.UpdateItemRequest{Quantity: quantity}
	if err := s.api.Put(ctx, fmt.Sprintf("/carts/%d/items/%d", cartID, deviceID), body, nil); err != nil {
		s.logger.Error("failed to update cart item",
			zap.Int64("cart_id", cartID),
			zap.Int64("device_id", deviceID),
			zap.Error(err),
		)
		return xerrors.Normalize("Update quantity", err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, deviceID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/carts/%d/items/%d", cartID, deviceID), nil); err != nil {
		s.logger.Error("failed to remove cart item",
			zap.Int64("cart_id", cartID),
			zap.Int64("device_id", deviceID),
			zap.Error(err),
		)
		return xerrors.Normalize("Remove from cart", err)
	}
	return nil
}

func (s *CartService) ClearItems(ctx context.Context, cartID int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/carts/%d/items", cartID), nil); err != nil {
		s.logger.Error("failed to clear cart", zap.Int64("cart_id", cartID), zap.Error(err))
		return xerrors.Normalize("Clear cart", err)
	}
	return nil
}
