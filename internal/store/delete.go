package store

import (
	"context"

	"retrosync/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeleteSave removes a save and its dependent rows and returns counts of
// affected resources captured before deletion. Sync logs keep their rows but
// are detached from the save so device history survives.
func (s *Store) DeleteSave(ctx context.Context, saveID uuid.UUID) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		count := func(label string, query *gorm.DB) error {
			var total int64
			if err := query.Count(&total).Error; err != nil {
				return err
			}
			deleted[label] = total
			return nil
		}

		if err := count("versions", db.Model(&domain.SaveVersion{}).Where("save_id = ?", saveID)); err != nil {
			return err
		}
		if err := count("locations", db.Model(&domain.SaveLocation{}).Where("save_id = ?", saveID)); err != nil {
			return err
		}

		if err := db.Model(&domain.SyncLog{}).
			Where("save_id = ?", saveID).
			Updates(map[string]any{"save_id": nil, "save_version_id": nil}).Error; err != nil {
			return err
		}
		if err := db.Where("save_id = ?", saveID).Delete(&domain.SaveVersion{}).Error; err != nil {
			return err
		}
		if err := db.Where("save_id = ?", saveID).Delete(&domain.SaveLocation{}).Error; err != nil {
			return err
		}
		return db.Where("id = ?", saveID).Delete(&domain.Save{}).Error
	})

	return deleted, err
}
