package store

import (
	"context"
	"time"

	"retrosync/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationStore struct{ db *gorm.DB }

func (s *Store) Locations() *LocationStore { return &LocationStore{db: s.DB} }

// Upsert registers a (save, device, path) binding. local_path is part of the
// conflict target and is never assigned on update, which makes it
// first-write-wins; only device_type and updated_at are refreshed. The row is
// re-read so the caller observes the stored sync mode, not the defaults.
func (ls *LocationStore) Upsert(ctx context.Context, loc *domain.SaveLocation) error {
	now := time.Now().UTC()
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = now
	}
	loc.UpdatedAt = now
	if loc.SyncMode == "" {
		loc.SyncMode = domain.ModeSync
		loc.SyncEnabled = true
	}

	err := ls.db.WithContext(ctx).Clauses(onConflictUpdate(
		[]string{"save_id", "device_id", "local_path"},
		[]string{"device_type", "updated_at"},
	)).Create(loc).Error
	if err != nil {
		return err
	}

	return ls.db.WithContext(ctx).
		First(loc, "save_id = ? AND device_id = ? AND local_path = ?", loc.SaveID, loc.DeviceID, loc.LocalPath).Error
}

func (ls *LocationStore) Get(ctx context.Context, id uuid.UUID) (*domain.SaveLocation, error) {
	var out domain.SaveLocation
	if err := ls.db.WithContext(ctx).Preload("Save").First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDownloadableByDevice returns the device's locations that participate in
// download manifests, with the owning save and its version history preloaded.
func (ls *LocationStore) ListDownloadableByDevice(ctx context.Context, deviceID uuid.UUID) ([]*domain.SaveLocation, error) {
	var locations []*domain.SaveLocation
	err := ls.db.WithContext(ctx).
		Preload("Save").
		Preload("Save.Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at desc")
		}).
		Where("device_id = ? AND sync_enabled = ? AND sync_mode = ?", deviceID, true, domain.ModeSync).
		Order("updated_at desc").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (ls *LocationStore) SetMode(ctx context.Context, id uuid.UUID, mode domain.SyncMode) error {
	return ls.db.WithContext(ctx).
		Model(&domain.SaveLocation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sync_mode":    mode,
			"sync_enabled": mode != domain.ModeDisabled,
			"updated_at":   time.Now().UTC(),
		}).Error
}
