// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Account is an authenticated user of the admin and member surfaces. It is
// distinct from the public users intake table, which stores raw form
// submissions and carries no credentials.
type Account struct {
	ID                  snowflake.ID `gorm:"primaryKey"`
	ExternalID          *string      `gorm:"column:external_id;type:varchar(255);uniqueIndex"`
	Provider            string       `gorm:"type:varchar(32);not null"`
	DisplayName         string       `gorm:"type:text"`
	Email               string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash        *string      `gorm:"type:text"`
	LastPasswordChanged *time.Time   `gorm:"column:last_password_changed"`
	CreatedAt           time.Time    `gorm:"not null"`
	UpdatedAt           time.Time    `gorm:"not null"`
}

func (Account) TableName() string { return "accounts" }

// Session represents a persisted login session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	AccountID        snowflake.ID `gorm:"column:account_id;not null;index"`
	SessionTokenHash string       `gorm:"column:session_token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	RevokedAt        *time.Time   `gorm:"column:revoked_at"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null"`
	LastSeenAt       time.Time    `gorm:"column:last_seen_at;not null"`
}

func (Session) TableName() string { return "sessions" }

// SessionView is returned to clients without exposing token values.
type SessionView struct {
	Metadata map[string]any `json:"metadata"`
}
