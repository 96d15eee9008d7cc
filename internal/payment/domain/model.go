package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProcessedPayment records a gateway payment identifier whose effects have
// been fully applied. Existence of a row is the single source of truth for
// "already handled"; it is written inside the same transaction as the
// registration, contact, and coupon changes it guards.
type ProcessedPayment struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	PaymentID string         `json:"payment_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:json"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null"`
}

func (ProcessedPayment) TableName() string { return "processed_payments" }

type Repository interface {
	Exists(ctx context.Context, db *gorm.DB, paymentID string) (bool, error)
	// Record inserts the processed marker. It reports false without error
	// when another transaction already committed the same payment id, so
	// the loser of a delivery race can roll back cleanly.
	Record(ctx context.Context, db *gorm.DB, payment *ProcessedPayment) (bool, error)
}
