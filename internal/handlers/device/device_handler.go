// internal/handlers/device/device_handler.go
package device

import (
	"net/http"
	"strconv"

	"bookdesk-service/internal/domain/device"
	"bookdesk-service/internal/pkg/response"
	service "bookdesk-service/internal/service/device"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	deviceService *service.DeviceService
}

func NewDeviceHandler(deviceService *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

func (h *DeviceHandler) ListDevices(c *gin.Context) {
	var filters device.DeviceListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	devices, err := h.deviceService.ListDevices(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to load devices")
		return
	}

	response.Success(c, http.StatusOK, "devices retrieved", gin.H{
		"devices": devices,
		"count":   len(devices),
	})
}

func (h *DeviceHandler) GetDevice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid device ID", err)
		return
	}

	d, err := h.deviceService.GetDevice(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err, "failed to load device")
		return
	}
	response.Success(c, http.StatusOK, "device retrieved", d)
}
