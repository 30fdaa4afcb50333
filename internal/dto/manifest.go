package dto

import "time"

type VersionInfo struct {
	ID                string    `json:"id"`
	ContentHash       string    `json:"contentHash"`
	ByteSize          int64     `json:"byteSize"`
	LocalModifiedAt   time.Time `json:"localModifiedAt"`
	LocalModifiedAtMs int64     `json:"localModifiedAtMs"`
	UploadedAt        time.Time `json:"uploadedAt"`
	UploadedAtMs      int64     `json:"uploadedAtMs"`
}

// ManifestEntry tells a device what it should converge to for one save.
// Unmapped entries (NeedsMapping) belong to the user but have no path on this
// device yet; the client has to run the game once before auto-sync can start.
type ManifestEntry struct {
	SaveID        string       `json:"saveId"`
	SaveKey       string       `json:"saveKey"`
	DisplayName   string       `json:"displayName"`
	LocalPath     *string      `json:"localPath"`
	DeviceType    string       `json:"deviceType"`
	NeedsMapping  bool         `json:"needsMapping"`
	LatestVersion *VersionInfo `json:"latestVersion"`
}

type DeviceSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	DeviceType string `json:"deviceType"`
}

type ManifestResponse struct {
	Device        DeviceSummary   `json:"device"`
	Manifest      []ManifestEntry `json:"manifest"`
	Count         int             `json:"count"`
	MappedCount   int             `json:"mappedCount"`
	UnmappedCount int             `json:"unmappedCount"`
}
