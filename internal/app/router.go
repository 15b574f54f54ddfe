// internal/app/router.go
package app

import (
	"net/http"

	authHandler "bookdesk-service/internal/handlers/auth"
	cartHandler "bookdesk-service/internal/handlers/cart"
	confirmHandler "bookdesk-service/internal/handlers/confirm"
	deviceHandler "bookdesk-service/internal/handlers/device"
	notifyHandler "bookdesk-service/internal/handlers/notification"
	scheduleHandler "bookdesk-service/internal/handlers/schedule"
	wsHandler "bookdesk-service/internal/handlers/websocket"
	"bookdesk-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	NotifHandler    *notifyHandler.NotificationHandler
	ConfirmHandler  *confirmHandler.ConfirmHandler
	CartHandler     *cartHandler.CartHandler
	DeviceHandler   *deviceHandler.DeviceHandler
	ScheduleHandler *scheduleHandler.ScheduleHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Metrics ====================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)
	api.GET("/ws/stats", h.WSHandler.GetStats)

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.NotifHandler.ListNotifications)
		notifications.POST("", h.NotifHandler.CreateNotification)
		notifications.DELETE("/:id", h.NotifHandler.DismissNotification)
		notifications.DELETE("", h.NotifHandler.ClearNotifications)
	}

	// ==================== Confirmation Dialog ====================
	confirm := api.Group("/confirm")
	{
		confirm.GET("", h.ConfirmHandler.GetState)
		confirm.POST("", h.ConfirmHandler.RequestConfirmation)
		confirm.POST("/accept", h.ConfirmHandler.Accept)
		confirm.POST("/cancel", h.ConfirmHandler.Cancel)
	}

	// ==================== Auth ====================
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/logout", h.AuthHandler.Logout)
		auth.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Devices ====================
	devices := api.Group("/devices")
	{
		devices.GET("", h.DeviceHandler.ListDevices)
		devices.GET("/:id", h.DeviceHandler.GetDevice)
	}

	// ==================== Cart (authenticated) ====================
	cart := api.Group("/cart")
	cart.Use(h.AuthMiddleware.Auth())
	{
		cart.GET("", h.CartHandler.GetCart)
		cart.POST("/items", h.CartHandler.AddItem)
		cart.PUT("/items/:device_id", h.CartHandler.UpdateItem)
		cart.DELETE("/items/:device_id", h.CartHandler.RemoveItem)
		cart.DELETE("", h.CartHandler.ClearCart)
	}

	// ==================== Schedule (authenticated) ====================
	schedule := api.Group("/schedule")
	schedule.Use(h.AuthMiddleware.Auth())
	{
		schedule.GET("/refresh", h.ScheduleHandler.GetRefreshSignal)
		schedule.GET("/appointments", h.ScheduleHandler.ListAppointments)
	}

	// ==================== Schedule (staff only) ====================
	appointments := api.Group("/schedule/appointments")
	appointments.Use(h.AuthMiddleware.StaffOnly()...)
	{
		appointments.POST("", h.ScheduleHandler.CreateAppointment)
		appointments.PUT("/:id", h.ScheduleHandler.UpdateAppointment)
		appointments.DELETE("/:id", h.ScheduleHandler.DeleteAppointment)
		appointments.PATCH("/:id/status", h.ScheduleHandler.UpdateStatus)
	}
}
