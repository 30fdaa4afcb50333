package dto

import "time"

type SetSyncStrategyRequest struct {
	SaveID       string `json:"saveId"`
	SyncStrategy string `json:"syncStrategy"`
}

type SetSyncModeRequest struct {
	SaveLocationID string `json:"saveLocationId"`
	SyncMode       string `json:"syncMode"`
}

type ToggleSyncRequest struct {
	SaveLocationID string `json:"saveLocationId"`
	SyncEnabled    *bool  `json:"syncEnabled"`
}

type LocationSummary struct {
	ID               string     `json:"id"`
	DeviceID         string     `json:"deviceId"`
	DeviceName       string     `json:"deviceName"`
	DeviceType       string     `json:"deviceType"`
	LocalPath        string     `json:"localPath"`
	SyncEnabled      bool       `json:"syncEnabled"`
	SyncMode         string     `json:"syncMode"`
	IsLatest         bool       `json:"isLatest"`
	LatestModifiedAt *time.Time `json:"latestModifiedAt"`
}

type SaveSummary struct {
	ID            string            `json:"id"`
	SaveKey       string            `json:"saveKey"`
	DisplayName   string            `json:"displayName"`
	SyncStrategy  string            `json:"syncStrategy"`
	LatestVersion *VersionInfo      `json:"latestVersion"`
	Locations     []LocationSummary `json:"locations"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type SavesResponse struct {
	Saves []SaveSummary `json:"saves"`
	Count int           `json:"count"`
}

// DeleteSaveResponse reports what a cascade delete removed.
type DeleteSaveResponse struct {
	SaveID  string           `json:"saveId"`
	Deleted map[string]int64 `json:"deleted"`
}

type PlanDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Count   int64  `json:"count,omitempty"`
}
