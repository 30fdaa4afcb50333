package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"retrosync/internal/blob"
	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/observability/metrics"
	"retrosync/internal/service"
	"retrosync/internal/store"

	"github.com/google/uuid"
)

var _ service.UploadService = (*UploadServiceImpl)(nil)

type UploadServiceImpl struct {
	store *store.Store
	blobs blob.Store
	now   func() time.Time
}

func NewUploadServiceImpl(st *store.Store, blobs blob.Store) *UploadServiceImpl {
	return &UploadServiceImpl{
		store: st,
		blobs: blobs,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Upload admits one device upload. Checks run in strict order and the first
// match wins: disabled location, duplicate content anywhere in the save's
// history, older-than-known for this device, unchanged re-upload, accept.
// Every attempt commits exactly one terminal sync log.
func (u *UploadServiceImpl) Upload(ctx context.Context, device *domain.Device, req dto.UploadRequest) (*dto.UploadResult, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: device is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.FilePath) == "" {
		return nil, fmt.Errorf("%w: filePath is required", ErrInvalidRequest)
	}
	if len(req.FileContent) == 0 {
		return nil, fmt.Errorf("%w: fileContent is required", ErrInvalidRequest)
	}
	if containsTraversal(req.FilePath) || containsTraversal(req.LocalPath) {
		return nil, fmt.Errorf("%w: invalid file path", ErrInvalidRequest)
	}

	now := u.now()
	safePath := strings.TrimPrefix(req.FilePath, "/")

	effectivePath := req.LocalPath
	if effectivePath == "" {
		effectivePath = safePath
	}
	effectivePath = normalizeLocalPath(effectivePath)

	keyCandidate := req.SaveKey
	if keyCandidate == "" {
		keyCandidate = safePath
	}
	saveKey := normalizeSaveKey(keyCandidate)
	if saveKey == "" {
		return nil, fmt.Errorf("%w: empty save key", ErrInvalidRequest)
	}

	// Always recompute the hash server-side; a client-supplied hash is only a
	// hint and is never trusted for dedup or storage.
	sum := sha256.Sum256(req.FileContent)
	contentHash := hex.EncodeToString(sum[:])
	if req.ContentHash != "" && !strings.EqualFold(req.ContentHash, contentHash) {
		metrics.HashMismatchesTotal.WithLabelValues().Inc()
		slog.Warn("client content hash mismatch",
			"device_id", device.ID,
			"client_hash", req.ContentHash,
			"computed_hash", contentHash,
		)
	}

	byteSize := req.FileSize
	if byteSize <= 0 {
		byteSize = int64(len(req.FileContent))
	}

	rawMtime, provided := req.LocalModifiedAt.Time()
	localModifiedAt, clamped := sanitizeTimestamp(rawMtime, provided, now)
	if clamped && provided {
		slog.Warn("clamped implausible mtime",
			"device_id", device.ID,
			"raw", rawMtime,
			"sanitized", localModifiedAt,
		)
	}

	var res *dto.UploadResult
	err := u.store.WithTx(ctx, func(tx *store.Store) error {
		// Serialize concurrent uploads for the same logical save so the
		// dedup and staleness reads below can't race a concurrent insert.
		if err := tx.Saves().AcquireKeyLock(ctx, device.UserID, saveKey); err != nil {
			return err
		}

		save := &domain.Save{
			UserID:      device.UserID,
			SaveKey:     saveKey,
			DisplayName: basename(safePath),
		}
		if err := tx.Saves().Upsert(ctx, save); err != nil {
			return err
		}

		loc := &domain.SaveLocation{
			SaveID:     save.ID,
			DeviceID:   device.ID,
			LocalPath:  effectivePath,
			DeviceType: device.DeviceType,
		}
		if err := tx.Locations().Upsert(ctx, loc); err != nil {
			return err
		}

		terminalLog := func(status domain.LogStatus, errorMsg string, versionID *domain.VersionID) error {
			return tx.SyncLogs().Create(ctx, &domain.SyncLog{
				DeviceID:      device.ID,
				Action:        domain.ActionUpload,
				FilePath:      safePath,
				FileSize:      byteSize,
				Status:        status,
				ErrorMsg:      errorMsg,
				SaveID:        &save.ID,
				SaveVersionID: versionID,
			})
		}

		// 1. Sync disabled for this location.
		if loc.BlocksUpload() {
			if err := terminalLog(domain.StatusSkipped, "sync disabled for this device", nil); err != nil {
				return err
			}
			res = &dto.UploadResult{
				Message: "Upload skipped - sync disabled for this save",
				Skipped: true,
				SaveID:  save.ID.String(),
			}
			metrics.UploadsTotal.WithLabelValues("disabled").Inc()
			return nil
		}

		// 2. Duplicate content anywhere in the save's history: register the
		// path, skip the blob write.
		existing, err := tx.Versions().FindBySaveAndHash(ctx, save.ID, contentHash)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := terminalLog(domain.StatusSkipped, "content already exists (path registered)", &existing.ID); err != nil {
				return err
			}
			res = &dto.UploadResult{
				Message:       "Path registered - content already exists",
				Skipped:       true,
				PathAdded:     true,
				SaveID:        save.ID.String(),
				SaveVersionID: existing.ID.String(),
				ContentHash:   contentHash,
			}
			metrics.UploadsTotal.WithLabelValues("duplicate").Inc()
			return nil
		}

		latest, err := tx.Versions().LatestForDevice(ctx, save.ID, device.ID)
		if err != nil {
			return err
		}
		if latest != nil {
			delta := localModifiedAt.Sub(latest.LocalModifiedAt)

			// 3. Stale relative to this device's own latest version. A stuck
			// or rolled-back clock must not overwrite known-newer state.
			if delta < -mtimeEpsilon {
				msg := fmt.Sprintf("upload rejected: file is older than existing version (%dms older)", (-delta).Milliseconds())
				if err := terminalLog(domain.StatusSkipped, msg, &latest.ID); err != nil {
					return err
				}
				res = &dto.UploadResult{
					Message:       "Upload skipped - file is older than existing version",
					Skipped:       true,
					SaveID:        save.ID.String(),
					SaveVersionID: latest.ID.String(),
					ContentHash:   contentHash,
				}
				metrics.UploadsTotal.WithLabelValues("stale").Inc()
				return nil
			}

			// 4. Unchanged re-upload: idempotent no-op.
			mtimeClose := delta >= -mtimeEpsilon && delta <= mtimeEpsilon
			if mtimeClose && latest.ContentHash == contentHash && latest.ByteSize == byteSize {
				if err := terminalLog(domain.StatusSkipped, "content unchanged", &latest.ID); err != nil {
					return err
				}
				res = &dto.UploadResult{
					Message:       "Upload skipped - content unchanged",
					Skipped:       true,
					SaveID:        save.ID.String(),
					SaveVersionID: latest.ID.String(),
					ContentHash:   contentHash,
				}
				metrics.UploadsTotal.WithLabelValues("unchanged").Inc()
				return nil
			}
		}

		// 5. Accept. The blob write must succeed before the version row
		// exists; a failed write leaves only a failed log and the registered
		// path, and the device sees a degraded non-error response.
		versionID := uuid.New()
		storageKey := fmt.Sprintf("%s/saves/%s/versions/%s", device.UserID, save.ID, versionID)

		if err := u.blobs.Put(ctx, storageKey, req.FileContent); err != nil {
			metrics.BlobWriteFailuresTotal.WithLabelValues().Inc()
			slog.Error("blob write failed",
				"device_id", device.ID,
				"save_id", save.ID,
				"storage_key", storageKey,
				"error", err,
			)
			if logErr := terminalLog(domain.StatusFailed, "blob store write failed", nil); logErr != nil {
				return logErr
			}
			res = &dto.UploadResult{
				Message:     "File sync logged (upload failed)",
				Uploaded:    false,
				SaveID:      save.ID.String(),
				ContentHash: contentHash,
			}
			metrics.UploadsTotal.WithLabelValues("failed").Inc()
			return nil
		}

		version := &domain.SaveVersion{
			ID:              versionID,
			SaveID:          save.ID,
			DeviceID:        device.ID,
			ContentHash:     contentHash,
			ByteSize:        byteSize,
			LocalModifiedAt: localModifiedAt,
			UploadedAt:      now,
			StorageKey:      storageKey,
		}
		if err := tx.Versions().Create(ctx, version); err != nil {
			return err
		}
		if err := terminalLog(domain.StatusSuccess, "", &versionID); err != nil {
			return err
		}

		res = &dto.UploadResult{
			Message:       "File uploaded and indexed successfully",
			Uploaded:      true,
			SaveID:        save.ID.String(),
			SaveVersionID: versionID.String(),
			ContentHash:   contentHash,
			StorageKey:    storageKey,
		}
		metrics.UploadsTotal.WithLabelValues("uploaded").Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
