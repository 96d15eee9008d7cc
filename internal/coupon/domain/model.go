package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("coupon_not_found")
	ErrInactive       = errors.New("coupon_inactive")
	ErrExpired        = errors.New("coupon_expired")
	ErrExhausted      = errors.New("coupon_exhausted")
	ErrInvalidRequest = errors.New("invalid_request")
)

const (
	DiscountTypeFlat    = "flat"
	DiscountTypePercent = "percent"
)

// Coupon is a discount code with a usage budget. used_count must never pass
// max_usage; the repository's conditional update is the only mutation path.
type Coupon struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	Code          string       `json:"code" gorm:"type:varchar(64);uniqueIndex;not null"`
	DiscountType  string       `json:"discount_type" gorm:"type:varchar(16);not null"`
	DiscountValue int64        `json:"discount_value" gorm:"not null"`
	MaxUsage      int          `json:"max_usage" gorm:"not null"`
	UsedCount     int          `json:"used_count" gorm:"not null;default:0"`
	ExpiresAt     *time.Time   `json:"expires_at"`
	IsActive      bool         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null"`
}

func (Coupon) TableName() string { return "coupons" }

// ApplyRequest asks for a prospective discount without consuming usage.
type ApplyRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount int64  `json:"amount" binding:"required"`
}

// ApplyResult is the computed discount for a valid coupon.
type ApplyResult struct {
	Code           string `json:"code"`
	DiscountType   string `json:"discount_type"`
	DiscountAmount int64  `json:"discount_amount"`
	FinalAmount    int64  `json:"final_amount"`
}

type Service interface {
	Apply(ctx context.Context, req ApplyRequest) (*ApplyResult, error)
}

// Repository owns coupon reads and the conditional redemption update.
type Repository interface {
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Coupon, error)
	// Redeem increments used_count iff the coupon is active and under its
	// cap. It reports whether a row was updated; zero rows is not an error.
	Redeem(ctx context.Context, db *gorm.DB, code string) (bool, error)
}
