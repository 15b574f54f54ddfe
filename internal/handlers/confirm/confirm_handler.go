// internal/handlers/confirm/confirm_handler.go
package confirm

import (
	"net/http"

	"bookdesk-service/internal/domain/confirm"
	"bookdesk-service/internal/pkg/response"
	service "bookdesk-service/internal/service/confirm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConfirmHandler struct {
	broker *service.Broker
	logger *zap.Logger
}

func NewConfirmHandler(broker *service.Broker, logger *zap.Logger) *ConfirmHandler {
	return &ConfirmHandler{broker: broker, logger: logger}
}

// GetState returns whether a dialog is open and its descriptor
func (h *ConfirmHandler) GetState(c *gin.Context) {
	response.Success(c, http.StatusOK, "confirmation state", h.broker.State())
}

// RequestConfirmation opens the dialog and holds the request open until the
// user decides or the client goes away.
func (h *ConfirmHandler) RequestConfirmation(c *gin.Context) {
	var opts confirm.Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	pending, err := h.broker.Request(opts)
	if err != nil {
		response.FromError(c, err, "a confirmation is already open")
		return
	}

	ok, err := h.broker.Await(c.Request.Context(), pending)
	if err != nil {
		h.logger.Info("confirmation abandoned by caller",
			zap.String("request_id", pending.ID()),
			zap.Error(err),
		)
		response.Error(c, http.StatusRequestTimeout, "confirmation abandoned", err)
		return
	}

	response.Success(c, http.StatusOK, "confirmation resolved", confirm.DecisionResponse{
		RequestID: pending.ID(),
		Confirmed: ok,
	})
}

// Accept resolves the open dialog with true
func (h *ConfirmHandler) Accept(c *gin.Context) {
	if !h.broker.Confirm() {
		response.NotFound(c, "no confirmation pending")
		return
	}
	response.Success(c, http.StatusOK, "confirmed", nil)
}

// Cancel resolves the open dialog with false
func (h *ConfirmHandler) Cancel(c *gin.Context) {
	if !h.broker.Cancel() {
		response.NotFound(c, "no confirmation pending")
		return
	}
	response.Success(c, http.StatusOK, "cancelled", nil)
}
