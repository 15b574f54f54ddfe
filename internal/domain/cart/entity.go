// internal/domain/cart/entity.go
package cart

import (
	"time"

	"bookdesk-service/internal/domain/device"
)

// Cart is the authoritative server side cart.
type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItem is a raw cart line as stored by the backend.
type LineItem struct {
	ID        int64   `json:"id"`
	CartID    int64   `json:"cart_id"`
	DeviceID  int64   `json:"device_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// DetailedItem is a line item enriched with the full device record.
type DetailedItem struct {
	device.Device
	LineItemID int64   `json:"line_item_id"`
	DeviceID   int64   `json:"device_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// Subtotal is UnitPrice times Quantity.
func (d DetailedItem) Subtotal() float64 {
	return d.UnitPrice * float64(d.Quantity)
}

// DTOs

type AddItemRequest struct {
	DeviceID int64 `json:"device_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,min=1"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartView struct {
	Cart        *Cart          `json:"cart"`
	Items       []DetailedItem `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount float64        `json:"total_amount"`
}
