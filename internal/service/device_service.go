package service

import (
	"context"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
)

type DeviceService interface {
	Register(ctx context.Context, userID domain.UserID, req dto.RegisterDeviceRequest) (*dto.RegisterDeviceResponse, error)
	Heartbeat(ctx context.Context, device *domain.Device) (*dto.HeartbeatResponse, error)
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Device, error)
}

type LogService interface {
	Record(ctx context.Context, device *domain.Device, req dto.LogEventRequest) (*dto.LogEventResponse, error)
	// List returns logs for one of the user's devices, or all of them when
	// deviceID is nil.
	List(ctx context.Context, userID domain.UserID, deviceID *domain.DeviceID, limit, offset int) (*dto.LogListResponse, error)
}
