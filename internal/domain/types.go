package domain

import "github.com/google/uuid"

type (
	UserID    = uuid.UUID
	DeviceID  = uuid.UUID
	SaveID    = uuid.UUID
	VersionID = uuid.UUID
)

// SyncStrategy controls whether a save's versions propagate across a user's
// devices (shared) or stay siloed per device (per_device).
type SyncStrategy string

const (
	StrategyShared    SyncStrategy = "shared"
	StrategyPerDevice SyncStrategy = "per_device"
)

func (s SyncStrategy) Valid() bool {
	return s == StrategyShared || s == StrategyPerDevice
}

// SyncMode is the per-location sync preference.
type SyncMode string

const (
	ModeSync       SyncMode = "sync"
	ModeUploadOnly SyncMode = "upload_only"
	ModeDisabled   SyncMode = "disabled"
)

func (m SyncMode) Valid() bool {
	return m == ModeSync || m == ModeUploadOnly || m == ModeDisabled
}

type LogAction string

const (
	ActionUpload   LogAction = "upload"
	ActionDownload LogAction = "download"
	ActionDelete   LogAction = "delete"
	ActionConflict LogAction = "conflict"
)

func (a LogAction) Valid() bool {
	switch a {
	case ActionUpload, ActionDownload, ActionDelete, ActionConflict:
		return true
	}
	return false
}

type LogStatus string

const (
	StatusSuccess LogStatus = "success"
	StatusFailed  LogStatus = "failed"
	StatusPending LogStatus = "pending"
	StatusSkipped LogStatus = "skipped"
)

func (s LogStatus) Valid() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusPending, StatusSkipped:
		return true
	}
	return false
}
