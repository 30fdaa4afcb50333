package domain

import "time"

const (
	TierFree = "free"
	TierPaid = "paid"
)

type User struct {
	ID               UserID    `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name             string    `gorm:"type:text" json:"name"`
	SubscriptionTier string    `gorm:"type:text;not null;default:free" json:"subscriptionTier"`
	CreatedAt        time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

func (u *User) IsPaidTier() bool { return u.SubscriptionTier == TierPaid }

type PasswordCredential struct {
	ID          UserID    `gorm:"type:uuid;primaryKey" json:"-"`
	UserID      UserID    `gorm:"type:uuid;not null;uniqueIndex" json:"-"`
	Algo        string    `gorm:"type:text;not null" json:"-"`
	Hash        []byte    `gorm:"type:bytea;not null" json:"-"`
	Salt        []byte    `gorm:"type:bytea;not null" json:"-"`
	ParamsJSON  []byte    `gorm:"type:jsonb" json:"-"`
	PasswordVer int       `gorm:"not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}

func (PasswordCredential) TableName() string { return "password_credentials" }

func (c *PasswordCredential) GetAlgo() string       { return c.Algo }
func (c *PasswordCredential) GetHash() []byte       { return c.Hash }
func (c *PasswordCredential) GetSalt() []byte       { return c.Salt }
func (c *PasswordCredential) GetParamsJSON() []byte { return c.ParamsJSON }
func (c *PasswordCredential) GetPasswordVer() int   { return c.PasswordVer }
