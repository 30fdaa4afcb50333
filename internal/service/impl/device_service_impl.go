package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

var _ service.DeviceService = (*DeviceServiceImpl)(nil)

type DeviceServiceImpl struct {
	store        *store.Store
	entitlements service.EntitlementService
	now          func() time.Time
}

func NewDeviceServiceImpl(st *store.Store, ent service.EntitlementService) *DeviceServiceImpl {
	return &DeviceServiceImpl{
		store:        st,
		entitlements: ent,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Register creates a device under the user's plan quota and mints its API key.
// The key is returned here and never again; only devices authenticate with it.
func (d *DeviceServiceImpl) Register(ctx context.Context, userID domain.UserID, req dto.RegisterDeviceRequest) (*dto.RegisterDeviceResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: device name is required", ErrInvalidRequest)
	}
	deviceType := strings.TrimSpace(req.DeviceType)
	if deviceType == "" {
		deviceType = "unknown"
	}

	decision, err := d.entitlements.CanAddDevice(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlanLimit, decision.Reason)
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, err
	}

	now := d.now()
	device := &domain.Device{
		UserID:     userID,
		Name:       name,
		DeviceType: deviceType,
		APIKey:     apiKey,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := d.store.Devices().Create(ctx, device); err != nil {
		return nil, err
	}

	return &dto.RegisterDeviceResponse{
		DeviceID:   device.ID.String(),
		Name:       device.Name,
		DeviceType: device.DeviceType,
		APIKey:     apiKey,
	}, nil
}

func (d *DeviceServiceImpl) Heartbeat(ctx context.Context, device *domain.Device) (*dto.HeartbeatResponse, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: device is required", ErrInvalidRequest)
	}
	at := d.now()
	if err := d.store.Devices().Heartbeat(ctx, device.ID, at); err != nil {
		return nil, err
	}
	return &dto.HeartbeatResponse{
		DeviceID:   device.ID.String(),
		DeviceName: device.Name,
		LastSyncAt: at,
	}, nil
}

func (d *DeviceServiceImpl) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Device, error) {
	return d.store.Devices().GetByUserID(ctx, userID)
}

// generateAPIKey mints a 256-bit random key. The prefix makes leaked keys
// greppable in configs and logs.
func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return "rsk_" + hex.EncodeToString(buf), nil
}
