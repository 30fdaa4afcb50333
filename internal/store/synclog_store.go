package store

import (
	"context"
	"fmt"
	"time"

	"retrosync/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogFilter is a closed set of sync-log query filters, so listing handles
// every case explicitly instead of assembling untyped where-maps.
type LogFilter interface{ isLogFilter() }

// ByDevice lists logs for a single device (ownership checked by the caller).
type ByDevice struct{ DeviceID uuid.UUID }

// ByUserDevices lists logs across all of a user's devices.
type ByUserDevices struct{ DeviceIDs []uuid.UUID }

func (ByDevice) isLogFilter()      {}
func (ByUserDevices) isLogFilter() {}

type SyncLogStore struct{ db *gorm.DB }

func (s *Store) SyncLogs() *SyncLogStore { return &SyncLogStore{db: s.DB} }

func (ls *SyncLogStore) Create(ctx context.Context, log *domain.SyncLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	return ls.db.WithContext(ctx).Create(log).Error
}

func (ls *SyncLogStore) List(ctx context.Context, filter LogFilter, limit, offset int) ([]domain.SyncLog, int64, error) {
	q := ls.db.WithContext(ctx).Model(&domain.SyncLog{})

	switch f := filter.(type) {
	case ByDevice:
		q = q.Where("device_id = ?", f.DeviceID)
	case ByUserDevices:
		if len(f.DeviceIDs) == 0 {
			return nil, 0, nil
		}
		q = q.Where("device_id IN ?", f.DeviceIDs)
	default:
		return nil, 0, fmt.Errorf("unknown log filter %T", filter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []domain.SyncLog
	err := q.Preload("Device").
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
