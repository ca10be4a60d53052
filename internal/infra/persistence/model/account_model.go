// Package model holds the GORM persistence models mirroring the database tables.
package model

import "time"

// AccountModel mirrors the 'accounts' table. Uniqueness of username and
// email is enforced by database constraints; emails are stored lowercase so
// the unique index doubles as the case-insensitive uniqueness check.
type AccountModel struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	FirstName     string `gorm:"type:varchar(100);not null"`
	LastName      string `gorm:"type:varchar(100);not null"`
	Username      string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email         string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  string `gorm:"type:varchar(255);not null"`
	Role          string `gorm:"type:varchar(20);not null;default:USER;index"`
	Active        bool   `gorm:"not null;default:true;index"`
	EmailVerified bool   `gorm:"not null;default:false"`
	Bio           string `gorm:"type:varchar(500)"`
	AvatarURL     string `gorm:"type:varchar(512)"`
	LastLoginAt   *time.Time
	FailedLogins  int `gorm:"not null;default:0"`
	LockedUntil   *time.Time
	Version       uint `gorm:"not null;default:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
