package store

import (
	"context"
	"time"

	"retrosync/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeviceStore struct{ db *gorm.DB }

func (s *Store) Devices() *DeviceStore { return &DeviceStore{db: s.DB} }

func (d *DeviceStore) Create(ctx context.Context, device *domain.Device) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	return d.db.WithContext(ctx).Create(device).Error
}

func (d *DeviceStore) Get(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	var out domain.Device
	if err := d.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DeviceStore) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Device, error) {
	var out domain.Device
	if err := d.db.WithContext(ctx).First(&out, "api_key = ?", apiKey).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DeviceStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Device, error) {
	var devices []*domain.Device
	if err := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (d *DeviceStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&domain.Device{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Heartbeat marks the device as seen. Used by the check-in endpoint.
func (d *DeviceStore) Heartbeat(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	return d.db.WithContext(ctx).
		Model(&domain.Device{}).
		Where("id = ?", deviceID).
		Updates(map[string]any{"last_sync_at": at, "is_active": true, "updated_at": at}).Error
}

// IDsForUser returns just the device ids owned by a user, for log filtering.
func (d *DeviceStore) IDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).
		Model(&domain.Device{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}
