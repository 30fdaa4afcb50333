package store

import (
	"context"
	"time"

	"retrosync/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveStore struct{ db *gorm.DB }

func (s *Store) Saves() *SaveStore { return &SaveStore{db: s.DB} }

// AcquireKeyLock serializes concurrent uploads for one logical save. The lock
// is transaction-scoped and released on commit/rollback. Dialects without
// advisory locks (sqlite in tests) fall back to the append-only race tolerance.
func (ss *SaveStore) AcquireKeyLock(ctx context.Context, userID uuid.UUID, saveKey string) error {
	if ss.db.Dialector.Name() != "postgres" {
		return nil
	}
	return ss.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", userID.String()+":"+saveKey).Error
}

// Upsert resolves the logical save for (userID, saveKey), creating it on first
// upload and refreshing displayName (last-writer-wins, display only) otherwise.
// The save is re-read after the conflict clause so the caller always sees the
// persisted row, including its current syncStrategy.
func (ss *SaveStore) Upsert(ctx context.Context, save *domain.Save) error {
	now := time.Now().UTC()
	if save.ID == uuid.Nil {
		save.ID = uuid.New()
	}
	if save.CreatedAt.IsZero() {
		save.CreatedAt = now
	}
	save.UpdatedAt = now
	if save.SyncStrategy == "" {
		save.SyncStrategy = domain.StrategyShared
	}

	err := ss.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "save_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
	}).Create(save).Error
	if err != nil {
		return err
	}

	return ss.db.WithContext(ctx).
		First(save, "user_id = ? AND save_key = ?", save.UserID, save.SaveKey).Error
}

func (ss *SaveStore) Get(ctx context.Context, id uuid.UUID) (*domain.Save, error) {
	var out domain.Save
	if err := ss.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser returns the user's saves with locations and full version history.
func (ss *SaveStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Save, error) {
	var saves []*domain.Save
	err := ss.db.WithContext(ctx).
		Preload("Locations").
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at desc")
		}).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&saves).Error
	if err != nil {
		return nil, err
	}
	return saves, nil
}

// ListUnmappedForDevice returns the user's shared saves that have no location
// on the given device, with version history for latest selection.
func (ss *SaveStore) ListUnmappedForDevice(ctx context.Context, userID, deviceID uuid.UUID) ([]*domain.Save, error) {
	var saves []*domain.Save
	err := ss.db.WithContext(ctx).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at desc")
		}).
		Where("user_id = ? AND sync_strategy = ?", userID, domain.StrategyShared).
		Where("id NOT IN (?)", ss.db.Model(&domain.SaveLocation{}).
			Select("save_id").
			Where("device_id = ?", deviceID)).
		Order("updated_at desc").
		Find(&saves).Error
	if err != nil {
		return nil, err
	}
	return saves, nil
}

func (ss *SaveStore) SetStrategy(ctx context.Context, id uuid.UUID, strategy domain.SyncStrategy) error {
	return ss.db.WithContext(ctx).
		Model(&domain.Save{}).
		Where("id = ?", id).
		Updates(map[string]any{"sync_strategy": strategy, "updated_at": time.Now().UTC()}).Error
}

// CountSharedByUser counts the user's shared saves, optionally excluding one
// (so re-toggling an already-shared save doesn't count against the quota).
func (ss *SaveStore) CountSharedByUser(ctx context.Context, userID uuid.UUID, excludeSaveID uuid.UUID) (int64, error) {
	q := ss.db.WithContext(ctx).
		Model(&domain.Save{}).
		Where("user_id = ? AND sync_strategy = ?", userID, domain.StrategyShared)
	if excludeSaveID != uuid.Nil {
		q = q.Where("id <> ?", excludeSaveID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
