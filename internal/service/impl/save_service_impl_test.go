package impl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"retrosync/internal/blob"
	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service/impl"
)

func TestListSavesAnnotatesLocations(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	uploads := impl.NewUploadServiceImpl(st, blobs)
	svc := impl.NewSaveServiceImpl(st, blobs)

	user := createUser(t, st, domain.TierFree)
	miyoo := createDevice(t, st, user.ID, "miyoo")
	steamdeck := createDevice(t, st, user.ID, "steamdeck")

	key := "saves/gb/pokemon.srm"
	if _, err := uploads.Upload(context.Background(), miyoo, dto.UploadRequest{
		FilePath:        "/mnt/sd/saves/pokemon.srm",
		FileContent:     []byte("old"),
		SaveKey:         key,
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-2 * time.Hour)),
	}); err != nil {
		t.Fatalf("miyoo upload: %v", err)
	}
	if _, err := uploads.Upload(context.Background(), steamdeck, dto.UploadRequest{
		FilePath:        "/home/deck/saves/pokemon.srm",
		FileContent:     []byte("new"),
		SaveKey:         key,
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	}); err != nil {
		t.Fatalf("deck upload: %v", err)
	}

	res, err := svc.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("expected 1 save, got %d", res.Count)
	}
	save := res.Saves[0]
	if len(save.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(save.Locations))
	}

	latestByDevice := map[string]bool{}
	for _, loc := range save.Locations {
		latestByDevice[loc.DeviceName] = loc.IsLatest
	}
	if !latestByDevice["steamdeck"] || latestByDevice["miyoo"] {
		t.Fatalf("expected steamdeck to hold the latest version, got %+v", latestByDevice)
	}
	if save.LatestVersion == nil {
		t.Fatalf("expected latest version on summary")
	}
}

func TestDeleteSaveCascadesAndCleansBlobs(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	uploads := impl.NewUploadServiceImpl(st, blobs)
	svc := impl.NewSaveServiceImpl(st, blobs)

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	path := "/saves/gb/pokemon.srm"
	res, err := uploads.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        path,
		FileContent:     []byte("v1"),
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-2 * time.Hour)),
	})
	if err != nil {
		t.Fatalf("upload v1: %v", err)
	}
	if _, err := uploads.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        path,
		FileContent:     []byte("v2"),
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	}); err != nil {
		t.Fatalf("upload v2: %v", err)
	}

	saveID := mustParseUUID(t, res.SaveID)
	deleted, err := svc.Delete(context.Background(), user.ID, saveID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.Deleted["versions"] != 2 || deleted.Deleted["locations"] != 1 {
		t.Fatalf("unexpected counts %+v", deleted.Deleted)
	}
	if blobs.Len() != 0 {
		t.Fatalf("expected blobs removed, %d left", blobs.Len())
	}

	// History survives, detached from the deleted save.
	var logs int64
	if err := st.DB.Model(&domain.SyncLog{}).Where("save_id IS NULL").Count(&logs).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logs == 0 {
		t.Fatalf("expected detached sync logs to remain")
	}

	if _, err := st.Saves().Get(context.Background(), saveID); err == nil {
		t.Fatalf("expected save row gone")
	}
}

func TestDeleteSaveOwnership(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	uploads := impl.NewUploadServiceImpl(st, blobs)
	svc := impl.NewSaveServiceImpl(st, blobs)

	owner := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, owner.ID, "miyoo")
	stranger := createUser(t, st, domain.TierFree)

	res, err := uploads.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        "/saves/gb/owned.srm",
		FileContent:     []byte("data"),
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, err = svc.Delete(context.Background(), stranger.ID, mustParseUUID(t, res.SaveID))
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
