// internal/service/schedule/appointment_service.go
package schedule

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"bookdesk-service/internal/apiclient"
	"bookdesk-service/internal/domain/schedule"
	xerrors "bookdesk-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// AppointmentService calls the reservation endpoints and fires the refresh
// signal after every successful write.
type AppointmentService struct {
	api    *apiclient.Client
	signal *Signal
	logger *zap.Logger
}

func NewAppointmentService(api *apiclient.Client, signal *Signal, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{api: api, signal: signal, logger: logger}
}

func (s *AppointmentService) ListAppointments(ctx context.Context, filters *schedule.AppointmentListFilters) ([]schedule.Appointment, error) {
	query := url.Values{}
	if filters != nil {
		if filters.Status != "" {
			query.Set("status", filters.Status)
		}
		if filters.FacilityID > 0 {
			query.Set("facility_id", strconv.FormatInt(filters.FacilityID, 10))
		}
		if filters.From != "" {
			query.Set("from", filters.From)
		}
		if filters.To != "" {
			query.Set("to", filters.To)
		}
	}

	var appointments []schedule.Appointment
	if err := s.api.Get(ctx, "/reservations", query, &appointments); err != nil {
		s.logger.Error("failed to list reservations", zap.Error(err))
		return nil, xerrors.Normalize("Load reservations", err)
	}
	return appointments, nil
}

func (s *AppointmentService) CreateAppointment(ctx context.Context, req *schedule.CreateAppointmentRequest) (*schedule.Appointment, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "end time must be after start time")
	}

	var created schedule.Appointment
	if err := s.api.Post(ctx, "/reservations", req, &created); err != nil {
		s.logger.Error("failed to create reservation", zap.Error(err))
		return nil, xerrors.Normalize("Create reservation", err)
	}

	s.signal.NotifyAppointmentCreated(entityOf(&created))
	return &created, nil
}

func (s *AppointmentService) UpdateAppointment(ctx context.Context, id int64, req *schedule.UpdateAppointmentRequest) (*schedule.Appointment, error) {
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "end time must be after start time")
	}

	var updated schedule.Appointment
	if err := s.api.Put(ctx, fmt.Sprintf("/reservations/%d", id), req, &updated); err != nil {
		s.logger.Error("failed to update reservation", zap.Int64("id", id), zap.Error(err))
		return nil, xerrors.Normalize("Update reservation", err)
	}
	if updated.ID == 0 {
		updated.ID = id
	}

	s.signal.NotifyAppointmentUpdated(entityOf(&updated))
	return &updated, nil
}

func (s *AppointmentService) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/reservations/%d", id), nil); err != nil {
		s.logger.Error("failed to delete reservation", zap.Int64("id", id), zap.Error(err))
		return xerrors.Normalize("Delete reservation", err)
	}

	s.signal.NotifyAppointmentDeleted(id)
	return nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, id int64, status schedule.AppointmentStatus) error {
	body := schedule.UpdateStatusRequest{Status: status}
	if err := s.api.Patch(ctx, fmt.Sprintf("/reservations/%d/status", id), body, nil); err != nil {
		s.logger.Error("failed to change reservation status",
			zap.Int64("id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return xerrors.Normalize("Change reservation status", err)
	}

	s.signal.NotifyStatusChanged(id, status)
	return nil
}

func entityOf(a *schedule.Appointment) schedule.UpdatedEntity {
	return schedule.UpdatedEntity{
		ID:     a.ID,
		Status: a.Status,
		Data: map[string]interface{}{
			"facility_id": a.FacilityID,
			"start_time":  a.StartTime,
			"end_time":    a.EndTime,
		},
	}
}
