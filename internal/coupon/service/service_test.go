package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/mmml-co/mmml-backend/internal/coupon/domain"
	"github.com/mmml-co/mmml-backend/internal/coupon/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dbSeq int64

// Shared across seeds: fresh nodes would hand out colliding IDs within the
// same millisecond.
var idNode, _ = snowflake.NewNode(1)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:couponsvc%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Coupon{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := NewService(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, db
}

func seed(t *testing.T, db *gorm.DB, coupon domain.Coupon) {
	t.Helper()
	coupon.ID = idNode.Generate()
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now().UTC()
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
}

func TestApplyPercentDiscount(t *testing.T) {
	svc, db := newTestService(t)
	seed(t, db, domain.Coupon{
		Code:          "HALF",
		DiscountType:  domain.DiscountTypePercent,
		DiscountValue: 50,
		MaxUsage:      10,
		IsActive:      true,
	})

	result, err := svc.Apply(context.Background(), domain.ApplyRequest{Code: "half", Amount: 1000})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.DiscountAmount != 500 || result.FinalAmount != 500 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Preview must not consume usage.
	var coupon domain.Coupon
	if err := db.Where("code = ?", "HALF").First(&coupon).Error; err != nil {
		t.Fatalf("reload coupon: %v", err)
	}
	if coupon.UsedCount != 0 {
		t.Fatalf("apply consumed usage: %d", coupon.UsedCount)
	}
}

func TestApplyFlatDiscountClamped(t *testing.T) {
	svc, db := newTestService(t)
	seed(t, db, domain.Coupon{
		Code:          "FLAT2000",
		DiscountType:  domain.DiscountTypeFlat,
		DiscountValue: 2000,
		MaxUsage:      10,
		IsActive:      true,
	})

	result, err := svc.Apply(context.Background(), domain.ApplyRequest{Code: "FLAT2000", Amount: 1500})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.DiscountAmount != 1500 || result.FinalAmount != 0 {
		t.Fatalf("discount not clamped to amount: %+v", result)
	}
}

func TestApplyRejections(t *testing.T) {
	svc, db := newTestService(t)
	expired := time.Now().UTC().Add(-time.Hour)
	seed(t, db, domain.Coupon{Code: "INACTIVE", DiscountType: domain.DiscountTypeFlat, DiscountValue: 100, MaxUsage: 10, IsActive: false})
	seed(t, db, domain.Coupon{Code: "EXPIRED", DiscountType: domain.DiscountTypeFlat, DiscountValue: 100, MaxUsage: 10, IsActive: true, ExpiresAt: &expired})
	seed(t, db, domain.Coupon{Code: "USEDUP", DiscountType: domain.DiscountTypeFlat, DiscountValue: 100, MaxUsage: 2, UsedCount: 2, IsActive: true})

	cases := []struct {
		code string
		want error
	}{
		{"MISSING", domain.ErrNotFound},
		{"INACTIVE", domain.ErrInactive},
		{"EXPIRED", domain.ErrExpired},
		{"USEDUP", domain.ErrExhausted},
		{"", domain.ErrInvalidRequest},
	}
	for _, tc := range cases {
		_, err := svc.Apply(context.Background(), domain.ApplyRequest{Code: tc.code, Amount: 1000})
		if !errors.Is(err, tc.want) {
			t.Fatalf("code %q: expected %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestRedeemStopsAtCap(t *testing.T) {
	_, db := newTestService(t)
	seed(t, db, domain.Coupon{Code: "CAP1", DiscountType: domain.DiscountTypeFlat, DiscountValue: 100, MaxUsage: 1, IsActive: true})

	repo := repository.Provide()
	ctx := context.Background()

	redeemed, err := repo.Redeem(ctx, db, "CAP1")
	if err != nil || !redeemed {
		t.Fatalf("first redeem: redeemed=%v err=%v", redeemed, err)
	}
	redeemed, err = repo.Redeem(ctx, db, "CAP1")
	if err != nil {
		t.Fatalf("second redeem: %v", err)
	}
	if redeemed {
		t.Fatal("redeem exceeded max usage")
	}

	var coupon domain.Coupon
	if err := db.Where("code = ?", "CAP1").First(&coupon).Error; err != nil {
		t.Fatalf("reload coupon: %v", err)
	}
	if coupon.UsedCount != 1 {
		t.Fatalf("used_count = %d, want 1", coupon.UsedCount)
	}
}
