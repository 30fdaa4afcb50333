package service

import (
	"context"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
)

// UploadService runs the admission pipeline for one device upload: identity
// resolution, dedup, staleness checks, then blob + version persistence.
// Outcomes (uploaded/skipped) are structured results; errors are reserved for
// malformed input and infrastructure failures.
type UploadService interface {
	Upload(ctx context.Context, device *domain.Device, req dto.UploadRequest) (*dto.UploadResult, error)
}

// ManifestService computes, for a device, the saves it should know about and
// the authoritative latest version of each.
type ManifestService interface {
	Build(ctx context.Context, device *domain.Device) (*dto.ManifestResponse, error)
}

// DownloadResult carries version bytes plus the metadata the client mirrors
// into its local filesystem state.
type DownloadResult struct {
	Version *domain.SaveVersion
	Data    []byte
}

type DownloadService interface {
	Download(ctx context.Context, device *domain.Device, versionID domain.VersionID) (*DownloadResult, error)
}
