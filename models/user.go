package models

import (
	"time"
)

// User is a dashboard login account. Resource routes are not gated on it; the
// account only backs /auth endpoints and the audit trail.
type User struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"uniqueIndex;not null"`
	Password       string     `json:"-" gorm:"not null"` // bcrypt hash
	Role           string     `json:"role" gorm:"default:'user'"`
	LastLogin      string     `json:"lastLogin"`
	FailedAttempts int        `json:"failedAttempts" gorm:"default:0"`
	LockoutUntil   *time.Time `json:"lockoutUntil,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// LoginAttempt is an audit row written on every login call, successful or not.
type LoginAttempt struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	IP        string    `json:"ip"`
	Username  string    `json:"username"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}
