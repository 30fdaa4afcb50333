package domain

import (
	"time"

	"github.com/google/uuid"
)

type SyncLog struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID      DeviceID   `gorm:"type:uuid;not null;index" json:"deviceId"`
	Action        LogAction  `gorm:"type:text;not null" json:"action"`
	FilePath      string     `gorm:"type:text;not null" json:"filePath"`
	FileSize      int64      `json:"fileSize"`
	Status        LogStatus  `gorm:"type:text;not null" json:"status"`
	ErrorMsg      string     `gorm:"type:text" json:"errorMsg,omitempty"`
	Metadata      string     `gorm:"type:text" json:"metadata,omitempty"`
	SaveID        *SaveID    `gorm:"type:uuid;index" json:"saveId,omitempty"`
	SaveVersionID *VersionID `gorm:"type:uuid" json:"saveVersionId,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"createdAt"`

	Device *Device `json:"device,omitempty"`
}

func (SyncLog) TableName() string { return "sync_logs" }
