// internal/service/device/service.go
package device

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"bookdesk-service/internal/apiclient"
	"bookdesk-service/internal/domain/device"
	xerrors "bookdesk-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type DeviceService struct {
	api    *apiclient.Client
	logger *zap.Logger
}

func NewDeviceService(api *apiclient.Client, logger *zap.Logger) *DeviceService {
	return &DeviceService{api: api, logger: logger}
}

// GetDevice loads the full device record.
func (s *DeviceService) GetDevice(ctx context.Context, id int64) (*device.Device, error) {
	var d device.Device
	if err := s.api.Get(ctx, fmt.Sprintf("/devices/%d", id), nil, &d); err != nil {
		s.logger.Error("failed to load device", zap.Int64("device_id", id), zap.Error(err))
		return nil, xerrors.Normalize("Load device", err)
	}
	return &d, nil
}

// ListDevices returns the catalogue page matching filters.
func (s *DeviceService) ListDevices(ctx context.Context, filters *device.DeviceListFilters) ([]device.Device, error) {
	query := url.Values{}
	if filters != nil {
		if filters.Category != "" {
			query.Set("category", filters.Category)
		}
		if filters.Search != "" {
			query.Set("search", filters.Search)
		}
		if filters.Page > 0 {
			query.Set("page", strconv.Itoa(filters.Page))
		}
		if filters.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(filters.PageSize))
		}
	}

	var devices []device.Device
	if err := s.api.Get(ctx, "/devices", query, &devices); err != nil {
		s.logger.Error("failed to list devices", zap.Error(err))
		return nil, xerrors.Normalize("Load devices", err)
	}
	return devices, nil
}
