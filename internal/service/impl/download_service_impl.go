package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"retrosync/internal/blob"
	"retrosync/internal/domain"
	"retrosync/internal/observability/metrics"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

const downloadLogTimeout = 5 * time.Second

var _ service.DownloadService = (*DownloadServiceImpl)(nil)

type DownloadServiceImpl struct {
	store *store.Store
	blobs blob.Store
}

func NewDownloadServiceImpl(st *store.Store, blobs blob.Store) *DownloadServiceImpl {
	return &DownloadServiceImpl{store: st, blobs: blobs}
}

// Download streams a version's bytes to an owning device. The download log is
// written asynchronously so a slow log insert never delays the payload; a
// failed insert is counted and logged but not surfaced to the client.
func (d *DownloadServiceImpl) Download(ctx context.Context, device *domain.Device, versionID domain.VersionID) (*service.DownloadResult, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: device is required", ErrInvalidRequest)
	}

	version, err := d.store.Versions().Get(ctx, versionID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, err
	}
	if version.Save == nil || version.Save.UserID != device.UserID {
		return nil, domain.ErrNotOwner
	}

	data, err := d.blobs.Get(ctx, version.StorageKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, err
	}

	go d.logDownload(device, version)

	return &service.DownloadResult{Version: version, Data: data}, nil
}

func (d *DownloadServiceImpl) logDownload(device *domain.Device, version *domain.SaveVersion) {
	ctx, cancel := context.WithTimeout(context.Background(), downloadLogTimeout)
	defer cancel()

	err := d.store.SyncLogs().Create(ctx, &domain.SyncLog{
		DeviceID:      device.ID,
		Action:        domain.ActionDownload,
		FilePath:      version.StorageKey,
		FileSize:      version.ByteSize,
		Status:        domain.StatusSuccess,
		SaveID:        &version.SaveID,
		SaveVersionID: &version.ID,
	})
	if err != nil {
		metrics.BackgroundLogFailuresTotal.WithLabelValues().Inc()
		slog.Error("download log write failed",
			"device_id", device.ID,
			"save_version_id", version.ID,
			"error", err,
		)
	}
}
