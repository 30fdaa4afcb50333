package impl

import (
	"context"
	"fmt"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/observability/metrics"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

var _ service.ManifestService = (*ManifestServiceImpl)(nil)

type ManifestServiceImpl struct {
	store *store.Store
}

func NewManifestServiceImpl(st *store.Store) *ManifestServiceImpl {
	return &ManifestServiceImpl{store: st}
}

// Build computes the download manifest for a device: one entry per shared save
// the device has a sync-enabled path for, plus unmapped entries for shared
// saves the device hasn't seen yet. Saves with the per_device strategy never
// appear; their versions stay private to the device that uploaded them.
func (m *ManifestServiceImpl) Build(ctx context.Context, device *domain.Device) (*dto.ManifestResponse, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: device is required", ErrInvalidRequest)
	}

	locations, err := m.store.Locations().ListDownloadableByDevice(ctx, device.ID)
	if err != nil {
		return nil, err
	}

	// Several paths on one device can point at the same logical save. One
	// manifest entry per save; the most recently updated location wins as the
	// path the client should write to.
	bySave := make(map[domain.SaveID]*domain.SaveLocation)
	var order []domain.SaveID
	for _, loc := range locations {
		if loc.Save == nil || loc.Save.SyncStrategy != domain.StrategyShared {
			continue
		}
		if _, seen := bySave[loc.SaveID]; !seen {
			bySave[loc.SaveID] = loc
			order = append(order, loc.SaveID)
		}
	}

	entries := make([]dto.ManifestEntry, 0, len(order))
	for _, saveID := range order {
		loc := bySave[saveID]
		path := loc.LocalPath
		entries = append(entries, dto.ManifestEntry{
			SaveID:        saveID.String(),
			SaveKey:       loc.Save.SaveKey,
			DisplayName:   loc.Save.DisplayName,
			LocalPath:     &path,
			DeviceType:    loc.DeviceType,
			LatestVersion: versionInfo(selectLatestVersion(loc.Save.Versions)),
		})
	}
	mapped := len(entries)

	unmappedSaves, err := m.store.Saves().ListUnmappedForDevice(ctx, device.UserID, device.ID)
	if err != nil {
		return nil, err
	}
	for _, save := range unmappedSaves {
		latest := selectLatestVersion(save.Versions)
		if latest == nil {
			continue
		}
		entries = append(entries, dto.ManifestEntry{
			SaveID:        save.ID.String(),
			SaveKey:       save.SaveKey,
			DisplayName:   save.DisplayName,
			LocalPath:     nil,
			DeviceType:    device.DeviceType,
			NeedsMapping:  true,
			LatestVersion: versionInfo(latest),
		})
	}

	metrics.ManifestBuildsTotal.WithLabelValues().Inc()

	return &dto.ManifestResponse{
		Device: dto.DeviceSummary{
			ID:         device.ID.String(),
			Name:       device.Name,
			DeviceType: device.DeviceType,
		},
		Manifest:      entries,
		Count:         len(entries),
		MappedCount:   mapped,
		UnmappedCount: len(entries) - mapped,
	}, nil
}

// selectLatestVersion picks the authoritative version of a save. Versions with
// a real mtime are ordered by when the player actually modified the file and
// normally win. Fallback versions (mtime substituted at upload) only carry
// upload time, which says nothing about play order, so a fallback outranks the
// newest real version only when it was uploaded more than a week after the
// real one was modified. That window keeps a device with a broken clock from
// permanently pinning an old save, without letting every fallback upload
// steamroll real timestamps.
func selectLatestVersion(versions []domain.SaveVersion) *domain.SaveVersion {
	if len(versions) == 0 {
		return nil
	}

	var newestReal, newestFallback *domain.SaveVersion
	for i := range versions {
		v := &versions[i]
		if hasRealMtime(v.LocalModifiedAt, v.UploadedAt) {
			if newestReal == nil || v.LocalModifiedAt.After(newestReal.LocalModifiedAt) {
				newestReal = v
			}
		} else {
			if newestFallback == nil || v.UploadedAt.After(newestFallback.UploadedAt) {
				newestFallback = v
			}
		}
	}

	switch {
	case newestReal == nil:
		return newestFallback
	case newestFallback == nil:
		return newestReal
	case newestFallback.UploadedAt.Sub(newestReal.LocalModifiedAt) > fallbackPreferenceWindow:
		return newestFallback
	default:
		return newestReal
	}
}

func versionInfo(v *domain.SaveVersion) *dto.VersionInfo {
	if v == nil {
		return nil
	}
	return &dto.VersionInfo{
		ID:                v.ID.String(),
		ContentHash:       v.ContentHash,
		ByteSize:          v.ByteSize,
		LocalModifiedAt:   v.LocalModifiedAt,
		LocalModifiedAtMs: v.LocalModifiedAt.UnixMilli(),
		UploadedAt:        v.UploadedAt,
		UploadedAtMs:      v.UploadedAt.UnixMilli(),
	}
}
