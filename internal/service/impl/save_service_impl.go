package impl

import (
	"context"
	"log/slog"

	"retrosync/internal/blob"
	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

var _ service.SaveService = (*SaveServiceImpl)(nil)

type SaveServiceImpl struct {
	store *store.Store
	blobs blob.Store
}

func NewSaveServiceImpl(st *store.Store, blobs blob.Store) *SaveServiceImpl {
	return &SaveServiceImpl{store: st, blobs: blobs}
}

// List returns the user's saves with their locations annotated: a location is
// latest when its device produced the version the manifest policy would pick.
func (s *SaveServiceImpl) List(ctx context.Context, userID domain.UserID) (*dto.SavesResponse, error) {
	saves, err := s.store.Saves().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	devices, err := s.store.Devices().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	deviceNames := make(map[domain.DeviceID]string, len(devices))
	for _, d := range devices {
		deviceNames[d.ID] = d.Name
	}

	summaries := make([]dto.SaveSummary, 0, len(saves))
	for _, save := range saves {
		latest := selectLatestVersion(save.Versions)

		// Per-device latest mtime, for the location annotations.
		latestByDevice := make(map[domain.DeviceID]*domain.SaveVersion)
		for i := range save.Versions {
			v := &save.Versions[i]
			cur := latestByDevice[v.DeviceID]
			if cur == nil || v.LocalModifiedAt.After(cur.LocalModifiedAt) {
				latestByDevice[v.DeviceID] = v
			}
		}

		locations := make([]dto.LocationSummary, 0, len(save.Locations))
		for _, loc := range save.Locations {
			ls := dto.LocationSummary{
				ID:          loc.ID.String(),
				DeviceID:    loc.DeviceID.String(),
				DeviceName:  deviceNames[loc.DeviceID],
				DeviceType:  loc.DeviceType,
				LocalPath:   loc.LocalPath,
				SyncEnabled: loc.SyncEnabled,
				SyncMode:    string(loc.SyncMode),
			}
			if v := latestByDevice[loc.DeviceID]; v != nil {
				t := v.LocalModifiedAt
				ls.LatestModifiedAt = &t
				ls.IsLatest = latest != nil && v.ID == latest.ID
			}
			locations = append(locations, ls)
		}

		summaries = append(summaries, dto.SaveSummary{
			ID:            save.ID.String(),
			SaveKey:       save.SaveKey,
			DisplayName:   save.DisplayName,
			SyncStrategy:  string(save.SyncStrategy),
			LatestVersion: versionInfo(latest),
			Locations:     locations,
			CreatedAt:     save.CreatedAt,
			UpdatedAt:     save.UpdatedAt,
		})
	}

	return &dto.SavesResponse{Saves: summaries, Count: len(summaries)}, nil
}

// Delete cascades a save's rows and then deletes its blobs best-effort. Blob
// deletion happens after the transaction commits; an orphaned blob is cheaper
// than a version row pointing at deleted bytes.
func (s *SaveServiceImpl) Delete(ctx context.Context, userID domain.UserID, saveID domain.SaveID) (*dto.DeleteSaveResponse, error) {
	save, err := s.store.Saves().Get(ctx, saveID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.ErrSaveNotFound
		}
		return nil, err
	}
	if save.UserID != userID {
		return nil, domain.ErrNotOwner
	}

	versions, err := s.store.Versions().ListBySave(ctx, saveID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.DeleteSave(ctx, saveID)
	if err != nil {
		return nil, err
	}

	for _, v := range versions {
		if err := s.blobs.Delete(ctx, v.StorageKey); err != nil {
			slog.Warn("orphaned blob after save delete",
				"save_id", saveID,
				"storage_key", v.StorageKey,
				"error", err,
			)
		}
	}

	return &dto.DeleteSaveResponse{SaveID: saveID.String(), Deleted: deleted}, nil
}
