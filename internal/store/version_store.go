package store

import (
	"context"
	"time"

	"retrosync/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VersionStore struct{ db *gorm.DB }

func (s *Store) Versions() *VersionStore { return &VersionStore{db: s.DB} }

// Create persists an immutable version row. Versions are never updated.
func (vs *VersionStore) Create(ctx context.Context, v *domain.SaveVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	return vs.db.WithContext(ctx).Create(v).Error
}

func (vs *VersionStore) Get(ctx context.Context, id uuid.UUID) (*domain.SaveVersion, error) {
	var out domain.SaveVersion
	if err := vs.db.WithContext(ctx).Preload("Save").First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// FindBySaveAndHash looks for a byte-identical version anywhere in the save's
// history, regardless of which device produced it. Returns nil when absent.
func (vs *VersionStore) FindBySaveAndHash(ctx context.Context, saveID uuid.UUID, contentHash string) (*domain.SaveVersion, error) {
	var out domain.SaveVersion
	err := vs.db.WithContext(ctx).
		Where("save_id = ? AND content_hash = ?", saveID, contentHash).
		Order("uploaded_at desc").
		First(&out).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// LatestForDevice returns the device's most recent version of the save by
// local mtime, or nil when the device has none.
func (vs *VersionStore) LatestForDevice(ctx context.Context, saveID, deviceID uuid.UUID) (*domain.SaveVersion, error) {
	var out domain.SaveVersion
	err := vs.db.WithContext(ctx).
		Where("save_id = ? AND device_id = ?", saveID, deviceID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "local_modified_at"}, Desc: true}).
		First(&out).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (vs *VersionStore) ListBySave(ctx context.Context, saveID uuid.UUID) ([]domain.SaveVersion, error) {
	var versions []domain.SaveVersion
	err := vs.db.WithContext(ctx).
		Where("save_id = ?", saveID).
		Order("uploaded_at desc").
		Find(&versions).Error
	return versions, err
}
