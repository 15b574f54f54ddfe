// internal/domain/schedule/entity.go
package schedule

import "time"

type UpdateType string

const (
	UpdateCreate       UpdateType = "create"
	UpdateUpdate       UpdateType = "update"
	UpdateDelete       UpdateType = "delete"
	UpdateStatusChange UpdateType = "status_change"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a reservation of a facility / room type for a time slot.
type Appointment struct {
	ID         int64                  `json:"id"`
	UserID     int64                  `json:"user_id"`
	FacilityID int64                  `json:"facility_id"`
	RoomTypeID int64                  `json:"room_type_id,omitempty"`
	DeviceID   int64                  `json:"device_id,omitempty"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    time.Time              `json:"end_time"`
	Status     AppointmentStatus      `json:"status"`
	Notes      string                 `json:"notes,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// UpdatedEntity records what the last refresh was about.
type UpdatedEntity struct {
	ID        int64                  `json:"id"`
	Status    AppointmentStatus      `json:"status,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// RefreshSignal is a snapshot of the process wide "schedule changed" signal.
// RefreshTrigger is a unix millisecond stamp that strictly increases.
type RefreshSignal struct {
	RefreshTrigger    int64          `json:"refresh_trigger"`
	UpdateType        UpdateType     `json:"update_type,omitempty"`
	LastUpdatedEntity *UpdatedEntity `json:"last_updated_entity,omitempty"`
}

// DTOs

type CreateAppointmentRequest struct {
	FacilityID int64                  `json:"facility_id" binding:"required"`
	RoomTypeID int64                  `json:"room_type_id"`
	DeviceID   int64                  `json:"device_id"`
	StartTime  time.Time              `json:"start_time" binding:"required"`
	EndTime    time.Time              `json:"end_time" binding:"required"`
	Notes      string                 `json:"notes"`
	Metadata   map[string]interface{} `json:"metadata"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time             `json:"start_time"`
	EndTime   *time.Time             `json:"end_time"`
	Notes     *string                `json:"notes"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

type AppointmentListFilters struct {
	Status     string `form:"status"`
	FacilityID int64  `form:"facility_id"`
	From       string `form:"from"`
	To         string `form:"to"`
}
