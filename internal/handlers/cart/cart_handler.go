// internal/handlers/cart/cart_handler.go
package cart

import (
	"net/http"
	"strconv"

	"bookdesk-service/internal/domain/cart"
	"bookdesk-service/internal/pkg/response"
	service "bookdesk-service/internal/service/cart"
	notificationservice "bookdesk-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	store         *service.Store
	notifications *notificationservice.Registry
}

func NewCartHandler(store *service.Store, notifications *notificationservice.Registry) *CartHandler {
	return &CartHandler{store: store, notifications: notifications}
}

// GetCart refetches the cart and its enriched items
func (h *CartHandler) GetCart(c *gin.Context) {
	if err := h.store.FetchCart(c.Request.Context()); err != nil {
		h.fail(c, err, "failed to load cart")
		return
	}
	response.Success(c, http.StatusOK, "cart retrieved", h.store.View())
}

// AddItem puts a device in the cart, creating the cart if needed
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.store.AddToCart(c.Request.Context(), req.DeviceID, req.Quantity); err != nil {
		h.fail(c, err, "failed to add item")
		return
	}

	h.notifications.Success("Cart", "Item added to cart")
	response.Success(c, http.StatusOK, "item added", h.store.View())
}

// UpdateItem sets the quantity of a device; zero or less removes it
func (h *CartHandler) UpdateItem(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.store.UpdateQuantity(c.Request.Context(), deviceID, req.Quantity); err != nil {
		h.fail(c, err, "failed to update item")
		return
	}
	response.Success(c, http.StatusOK, "item updated", h.store.View())
}

// RemoveItem drops a device from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	deviceID, ok := deviceIDParam(c)
	if !ok {
		return
	}

	if err := h.store.RemoveFromCart(c.Request.Context(), deviceID); err != nil {
		h.fail(c, err, "failed to remove item")
		return
	}

	h.notifications.Info("Cart", "Item removed from cart")
	response.Success(c, http.StatusOK, "item removed", h.store.View())
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.store.ClearCart(c.Request.Context()); err != nil {
		h.fail(c, err, "failed to clear cart")
		return
	}
	response.Success(c, http.StatusOK, "cart cleared", h.store.View())
}

func (h *CartHandler) fail(c *gin.Context, err error, fallback string) {
	h.notifications.Error("Error", err.Error())
	response.FromError(c, err, fallback)
}

func deviceIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("device_id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid device ID", err)
		return 0, false
	}
	return id, true
}
