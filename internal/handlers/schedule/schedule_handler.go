// internal/handlers/schedule/schedule_handler.go
package schedule

import (
	"net/http"
	"strconv"

	"bookdesk-service/internal/domain/schedule"
	"bookdesk-service/internal/pkg/response"
	notificationservice "bookdesk-service/internal/service/notification"
	service "bookdesk-service/internal/service/schedule"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	appointments  *service.AppointmentService
	signal        *service.Signal
	notifications *notificationservice.Registry
}

func NewScheduleHandler(
	appointments *service.AppointmentService,
	signal *service.Signal,
	notifications *notificationservice.Registry,
) *ScheduleHandler {
	return &ScheduleHandler{
		appointments:  appointments,
		signal:        signal,
		notifications: notifications,
	}
}

// GetRefreshSignal returns the latest refresh signal; views compare its
// trigger with the one they last rendered.
func (h *ScheduleHandler) GetRefreshSignal(c *gin.Context) {
	response.Success(c, http.StatusOK, "refresh signal", h.signal.Current())
}

// ========== Appointment Endpoints ==========

func (h *ScheduleHandler) ListAppointments(c *gin.Context) {
	var filters schedule.AppointmentListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.appointments.ListAppointments(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to load appointments")
		return
	}

	response.Success(c, http.StatusOK, "appointments retrieved", gin.H{
		"appointments": result,
		"count":        len(result),
	})
}

func (h *ScheduleHandler) CreateAppointment(c *gin.Context) {
	var req schedule.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.appointments.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "failed to create appointment")
		return
	}

	h.notifications.Success("Appointment", "Appointment created")
	response.Success(c, http.StatusCreated, "appointment created successfully", result)
}

func (h *ScheduleHandler) UpdateAppointment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req schedule.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.appointments.UpdateAppointment(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err, "failed to update appointment")
		return
	}

	h.notifications.Success("Appointment", "Appointment updated")
	response.Success(c, http.StatusOK, "appointment updated successfully", result)
}

func (h *ScheduleHandler) DeleteAppointment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.appointments.DeleteAppointment(c.Request.Context(), id); err != nil {
		h.fail(c, err, "failed to delete appointment")
		return
	}

	h.notifications.Success("Appointment", "Appointment deleted")
	response.Success(c, http.StatusOK, "appointment deleted successfully", nil)
}

func (h *ScheduleHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req schedule.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.appointments.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		h.fail(c, err, "failed to update appointment status")
		return
	}

	h.notifications.Success("Appointment", "Status changed to "+string(req.Status))
	response.Success(c, http.StatusOK, "appointment status updated", h.signal.Current())
}

func (h *ScheduleHandler) fail(c *gin.Context, err error, fallback string) {
	h.notifications.Error("Error", err.Error())
	response.FromError(c, err, fallback)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid appointment ID", err)
		return 0, false
	}
	return id, true
}
