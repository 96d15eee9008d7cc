package service

import (
	"context"
	"strings"
	"time"

	"github.com/mmml-co/mmml-backend/internal/coupon/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("coupon.service"),
		repo: p.Repo,
	}
}

// Apply validates a coupon and computes the prospective discount. It never
// mutates used_count; usage is only consumed by the webhook flow at actual
// payment capture.
func (s *Service) Apply(ctx context.Context, req domain.ApplyRequest) (*domain.ApplyResult, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" || req.Amount <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	coupon, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, domain.ErrNotFound
	}
	if !coupon.IsActive {
		return nil, domain.ErrInactive
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now().UTC()) {
		return nil, domain.ErrExpired
	}
	if coupon.UsedCount >= coupon.MaxUsage {
		return nil, domain.ErrExhausted
	}

	discount := computeDiscount(coupon, req.Amount)
	return &domain.ApplyResult{
		Code:           coupon.Code,
		DiscountType:   coupon.DiscountType,
		DiscountAmount: discount,
		FinalAmount:    req.Amount - discount,
	}, nil
}

func computeDiscount(coupon *domain.Coupon, amount int64) int64 {
	var discount int64
	switch coupon.DiscountType {
	case domain.DiscountTypePercent:
		discount = amount * coupon.DiscountValue / 100
	case domain.DiscountTypeFlat:
		discount = coupon.DiscountValue
	}
	if discount > amount {
		discount = amount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
