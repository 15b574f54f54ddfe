// internal/domain/notification/entity.go
package notification

import "time"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	}
	return false
}

// Notification is a toast currently visible to the user.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Key is the de-duplication key of a (title, message) pair.
func Key(title, message string) string {
	return title + "-" + message
}

// Key returns the de-duplication key of n.
func (n Notification) Key() string {
	return Key(n.Title, n.Message)
}

// DTOs

type CreateNotificationRequest struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title" binding:"required,max=255"`
	Message    string `json:"message"`
	DurationMs int    `json:"duration_ms" binding:"min=0,max=3600000"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Count         int            `json:"count"`
}
