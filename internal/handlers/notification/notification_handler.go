// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"
	"time"

	"bookdesk-service/internal/domain/notification"
	"bookdesk-service/internal/pkg/response"
	service "bookdesk-service/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	registry *service.Registry
}

func NewNotificationHandler(registry *service.Registry) *NotificationHandler {
	return &NotificationHandler{registry: registry}
}

// ListNotifications returns the visible notifications in insertion order
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	list := h.registry.List()
	response.Success(c, http.StatusOK, "notifications retrieved", notification.NotificationListResponse{
		Notifications: list,
		Count:         len(list),
	})
}

// CreateNotification shows a notification. A duplicate of a visible or
// cooling-down notification is accepted but not shown.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req notification.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	duration := time.Duration(req.DurationMs) * time.Millisecond
	n, shown := h.registry.Notify(req.Kind, req.Title, req.Message, duration)
	if !shown {
		response.Success(c, http.StatusAccepted, "duplicate notification suppressed", gin.H{"shown": false})
		return
	}

	response.Success(c, http.StatusCreated, "notification shown", gin.H{
		"shown":        true,
		"notification": n,
	})
}

// DismissNotification closes one notification. Unknown ids succeed silently.
func (h *NotificationHandler) DismissNotification(c *gin.Context) {
	removed := h.registry.Dismiss(c.Param("id"))
	response.Success(c, http.StatusOK, "notification dismissed", gin.H{"removed": removed})
}

// ClearNotifications drops every notification and its suppression.
func (h *NotificationHandler) ClearNotifications(c *gin.Context) {
	h.registry.Clear()
	response.Success(c, http.StatusOK, "notifications cleared", nil)
}
