package domain

import "time"

// Save is the logical game-save identity, independent of which device or path
// produced it. Unique per (UserID, SaveKey).
type Save struct {
	ID           SaveID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       UserID       `gorm:"type:uuid;not null;uniqueIndex:idx_saves_user_key,priority:1" json:"userId"`
	SaveKey      string       `gorm:"type:text;not null;uniqueIndex:idx_saves_user_key,priority:2" json:"saveKey"`
	DisplayName  string       `gorm:"type:text;not null" json:"displayName"`
	SyncStrategy SyncStrategy `gorm:"type:text;not null;default:shared" json:"syncStrategy"`
	CreatedAt    time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updatedAt"`

	Locations []SaveLocation `gorm:"constraint:OnDelete:CASCADE" json:"locations,omitempty"`
	Versions  []SaveVersion  `gorm:"constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

func (Save) TableName() string { return "saves" }

// SaveLocation records that a device has seen a save at a local path. LocalPath
// is write-once: subsequent uploads from the same device+path only refresh
// non-identity fields.
type SaveLocation struct {
	ID          SaveID    `gorm:"type:uuid;primaryKey" json:"id"`
	SaveID      SaveID    `gorm:"type:uuid;not null;uniqueIndex:idx_locations_save_device_path,priority:1" json:"saveId"`
	DeviceID    DeviceID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_locations_save_device_path,priority:2" json:"deviceId"`
	LocalPath   string    `gorm:"type:text;not null;uniqueIndex:idx_locations_save_device_path,priority:3" json:"localPath"`
	DeviceType  string    `gorm:"type:text;not null" json:"deviceType"`
	SyncEnabled bool      `gorm:"not null;default:true" json:"syncEnabled"`
	SyncMode    SyncMode  `gorm:"type:text;not null;default:sync" json:"syncMode"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`

	Save *Save `json:"-"`
}

func (SaveLocation) TableName() string { return "save_locations" }

// BlocksUpload reports whether uploads for this location should be skipped.
func (l *SaveLocation) BlocksUpload() bool {
	return !l.SyncEnabled || l.SyncMode == ModeDisabled
}

// Downloadable reports whether this location participates in download manifests.
func (l *SaveLocation) Downloadable() bool {
	return l.SyncEnabled && l.SyncMode == ModeSync
}

// SaveVersion is one immutable uploaded snapshot of a save's bytes. Rows are
// only ever created, never updated.
type SaveVersion struct {
	ID              VersionID `gorm:"type:uuid;primaryKey" json:"id"`
	SaveID          SaveID    `gorm:"type:uuid;not null;index:idx_versions_save_hash,priority:1" json:"saveId"`
	DeviceID        DeviceID  `gorm:"type:uuid;not null;index" json:"deviceId"`
	ContentHash     string    `gorm:"type:text;not null;index:idx_versions_save_hash,priority:2" json:"contentHash"`
	ByteSize        int64     `gorm:"not null" json:"byteSize"`
	LocalModifiedAt time.Time `gorm:"not null;index" json:"localModifiedAt"`
	UploadedAt      time.Time `gorm:"not null" json:"uploadedAt"`
	StorageKey      string    `gorm:"type:text;not null" json:"storageKey"`
	CreatedAt       time.Time `gorm:"not null" json:"-"`

	Save *Save `json:"-"`
}

func (SaveVersion) TableName() string { return "save_versions" }
