// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"bookdesk-service/internal/domain/auth"
	"bookdesk-service/internal/pkg/response"
	authUsecase "bookdesk-service/internal/service/auth"
	cartservice "bookdesk-service/internal/service/cart"
	notificationservice "bookdesk-service/internal/service/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService   *authUsecase.AuthService
	cart          *cartservice.Store
	notifications *notificationservice.Registry
	logger        *zap.Logger
}

func NewAuthHandler(
	authService *authUsecase.AuthService,
	cart *cartservice.Store,
	notifications *notificationservice.Registry,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cart:          cart,
		notifications: notifications,
		logger:        logger,
	}
}

// Login exchanges credentials for a session
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	view, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.notifications.Error("Login", err.Error())
		response.FromError(c, err, "login failed")
		return
	}

	h.notifications.Success("Welcome", "You are now signed in")
	response.Success(c, http.StatusOK, "login successful", view)
}

// Logout always clears the local session; the cart goes with it.
func (h *AuthHandler) Logout(c *gin.Context) {
	result := h.authService.Logout(c.Request.Context())
	h.cart.Reset()

	if !result.Success {
		h.logger.Warn("logout fell back to clearing storage", zap.String("message", result.Message))
	}
	response.Success(c, http.StatusOK, "logged out", result)
}

// Me returns the current session view. With ?refresh=true the profile is
// reloaded from the backend first.
func (h *AuthHandler) Me(c *gin.Context) {
	if c.Query("refresh") == "true" {
		if _, err := h.authService.LoadProfile(c.Request.Context()); err != nil {
			response.FromError(c, err, "failed to load profile")
			return
		}
	}
	response.Success(c, http.StatusOK, "session", h.authService.Session())
}
