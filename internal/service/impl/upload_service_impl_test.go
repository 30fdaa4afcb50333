package impl_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"retrosync/internal/blob"
	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service/impl"
)

// failingBlob simulates an unreachable object store.
type failingBlob struct{}

func (failingBlob) Put(context.Context, string, []byte) error  { return errors.New("connection refused") }
func (failingBlob) Get(context.Context, string) ([]byte, error) { return nil, errors.New("unreachable") }
func (failingBlob) Delete(context.Context, string) error       { return errors.New("unreachable") }
func (failingBlob) Exists(context.Context, string) (bool, error) {
	return false, errors.New("unreachable")
}

func TestUploadCreatesVersion(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	svc := impl.NewUploadServiceImpl(st, blobs)

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	content := []byte("pokemon-red-save-data")
	mtime := time.Now().UTC().Add(-time.Hour)

	res, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        "/saves/gb/pokemon_red.srm",
		FileContent:     content,
		LocalModifiedAt: dto.NewFlexTime(mtime),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !res.Uploaded || res.Skipped {
		t.Fatalf("expected uploaded result, got %+v", res)
	}

	sum := sha256.Sum256(content)
	if res.ContentHash != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected content hash %s", res.ContentHash)
	}
	if blobs.Len() != 1 {
		t.Fatalf("expected 1 blob, got %d", blobs.Len())
	}

	var entry domain.SyncLog
	if err := st.DB.First(&entry, "device_id = ?", device.ID).Error; err != nil {
		t.Fatalf("expected a sync log: %v", err)
	}
	if entry.Status != domain.StatusSuccess || entry.Action != domain.ActionUpload {
		t.Fatalf("unexpected log %+v", entry)
	}
}

func TestUploadUnchangedIsIdempotent(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	svc := impl.NewUploadServiceImpl(st, blobs)

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	req := dto.UploadRequest{
		FilePath:        "/saves/gb/pokemon_red.srm",
		FileContent:     []byte("save-data"),
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	}
	if _, err := svc.Upload(context.Background(), device, req); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	res, err := svc.Upload(context.Background(), device, req)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if !res.Skipped || res.Uploaded {
		t.Fatalf("expected skipped result, got %+v", res)
	}
	if blobs.Len() != 1 {
		t.Fatalf("expected 1 blob after re-upload, got %d", blobs.Len())
	}

	var count int64
	if err := st.DB.Model(&domain.SaveVersion{}).Count(&count).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 version, got %d", count)
	}
}

func TestUploadDuplicateContentRegistersPath(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	svc := impl.NewUploadServiceImpl(st, blobs)

	user := createUser(t, st, domain.TierFree)
	miyoo := createDevice(t, st, user.ID, "miyoo")
	steamdeck := createDevice(t, st, user.ID, "steamdeck")

	content := []byte("identical-bytes")
	key := "saves/gb/pokemon_red.srm"

	first, err := svc.Upload(context.Background(), miyoo, dto.UploadRequest{
		FilePath:        "/mnt/sd/saves/gb/pokemon_red.srm",
		FileContent:     content,
		SaveKey:         key,
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}

	second, err := svc.Upload(context.Background(), steamdeck, dto.UploadRequest{
		FilePath:        "/home/deck/saves/pokemon_red.srm",
		FileContent:     content,
		SaveKey:         key,
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-30 * time.Minute)),
	})
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if !second.Skipped || !second.PathAdded {
		t.Fatalf("expected path-added skip, got %+v", second)
	}
	if second.SaveVersionID != first.SaveVersionID {
		t.Fatalf("expected dedup against version %s, got %s", first.SaveVersionID, second.SaveVersionID)
	}
	if blobs.Len() != 1 {
		t.Fatalf("expected 1 blob, got %d", blobs.Len())
	}

	var locations int64
	if err := st.DB.Model(&domain.SaveLocation{}).Count(&locations).Error; err != nil {
		t.Fatalf("count locations: %v", err)
	}
	if locations != 2 {
		t.Fatalf("expected 2 locations, got %d", locations)
	}
}

func TestUploadOlderFileRejected(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	svc := impl.NewUploadServiceImpl(st, blobs)

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	base := time.Now().UTC().Add(-time.Hour)
	path := "/saves/gb/zelda.srm"

	if _, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        path,
		FileContent:     []byte("newer"),
		LocalModifiedAt: dto.NewFlexTime(base),
	}); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	// 10s older than the known version: a rolled-back clock must not win.
	older, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        path,
		FileContent:     []byte("older"),
		LocalModifiedAt: dto.NewFlexTime(base.Add(-10 * time.Second)),
	})
	if err != nil {
		t.Fatalf("older upload: %v", err)
	}
	if !older.Skipped || older.Uploaded {
		t.Fatalf("expected stale skip, got %+v", older)
	}

	// 10s newer is a legitimate new snapshot.
	newer, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        path,
		FileContent:     []byte("newest"),
		LocalModifiedAt: dto.NewFlexTime(base.Add(10 * time.Second)),
	})
	if err != nil {
		t.Fatalf("newer upload: %v", err)
	}
	if !newer.Uploaded {
		t.Fatalf("expected accepted upload, got %+v", newer)
	}

	var count int64
	if err := st.DB.Model(&domain.SaveVersion{}).Count(&count).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 versions, got %d", count)
	}
}

func TestUploadImplausibleMtimeClamped(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewUploadServiceImpl(st, blob.NewMemoryStore())

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	future := time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC)
	res, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        "/saves/gb/clock_broken.srm",
		FileContent:     []byte("data"),
		LocalModifiedAt: dto.NewFlexTime(future),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !res.Uploaded {
		t.Fatalf("clamped upload should still be accepted, got %+v", res)
	}

	var version domain.SaveVersion
	if err := st.DB.First(&version).Error; err != nil {
		t.Fatalf("load version: %v", err)
	}
	if d := time.Since(version.LocalModifiedAt); d < 0 || d > time.Minute {
		t.Fatalf("expected mtime clamped to now, got %s", version.LocalModifiedAt)
	}
}

func TestUploadDisabledLocationSkips(t *testing.T) {
	st := setupStore(t)
	blobs := blob.NewMemoryStore()
	svc := impl.NewUploadServiceImpl(st, blobs)

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	path := "/saves/gb/private.srm"
	if _, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        path,
		FileContent:     []byte("v1"),
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	}); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	var loc domain.SaveLocation
	if err := st.DB.First(&loc).Error; err != nil {
		t.Fatalf("load location: %v", err)
	}
	if err := st.Locations().SetMode(context.Background(), loc.ID, domain.ModeDisabled); err != nil {
		t.Fatalf("disable location: %v", err)
	}

	res, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        path,
		FileContent:     []byte("v2"),
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC()),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !res.Skipped || res.Uploaded {
		t.Fatalf("expected disabled skip, got %+v", res)
	}
	if blobs.Len() != 1 {
		t.Fatalf("expected no new blob, got %d", blobs.Len())
	}
}

func TestUploadBlobFailureLogsAndDegrades(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewUploadServiceImpl(st, failingBlob{})

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	res, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        "/saves/gb/unlucky.srm",
		FileContent:     []byte("data"),
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("blob failure must not be a request error: %v", err)
	}
	if res.Uploaded {
		t.Fatalf("expected degraded result, got %+v", res)
	}

	var versions int64
	if err := st.DB.Model(&domain.SaveVersion{}).Count(&versions).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if versions != 0 {
		t.Fatalf("expected no version rows, got %d", versions)
	}

	var failedLog domain.SyncLog
	if err := st.DB.First(&failedLog, "status = ?", domain.StatusFailed).Error; err != nil {
		t.Fatalf("expected a failed sync log: %v", err)
	}
}

func TestUploadRecomputesClientHash(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewUploadServiceImpl(st, blob.NewMemoryStore())

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	content := []byte("trust-but-verify")
	res, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:        "/saves/gb/hash.srm",
		FileContent:     content,
		ContentHash:     "deadbeef",
		LocalModifiedAt: dto.NewFlexTime(time.Now().UTC().Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	sum := sha256.Sum256(content)
	if res.ContentHash != hex.EncodeToString(sum[:]) {
		t.Fatalf("expected server-computed hash, got %s", res.ContentHash)
	}
}

func TestUploadRejectsTraversal(t *testing.T) {
	st := setupStore(t)
	svc := impl.NewUploadServiceImpl(st, blob.NewMemoryStore())

	user := createUser(t, st, domain.TierFree)
	device := createDevice(t, st, user.ID, "miyoo")

	_, err := svc.Upload(context.Background(), device, dto.UploadRequest{
		FilePath:    "/saves/../../etc/passwd",
		FileContent: []byte("x"),
	})
	if !errors.Is(err, impl.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}
