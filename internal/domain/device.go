package domain

import "time"

type Device struct {
	ID         DeviceID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     UserID     `gorm:"type:uuid;not null;index" json:"userId"`
	Name       string     `gorm:"type:text;not null" json:"name"`
	DeviceType string     `gorm:"type:text;not null" json:"deviceType"`
	APIKey     string     `gorm:"type:text;not null;uniqueIndex" json:"-"`
	LastSyncAt *time.Time `json:"lastSyncAt"`
	IsActive   bool       `gorm:"not null;default:false" json:"isActive"`
	CreatedAt  time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Device) TableName() string { return "devices" }
