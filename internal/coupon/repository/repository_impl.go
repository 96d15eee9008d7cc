package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/mmml-co/mmml-backend/internal/coupon/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}

	var item domain.Coupon
	err := db.WithContext(ctx).
		Where("code = ?", code).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Redeem is the synchronization point for concurrent redemptions: the WHERE
// clause on used_count makes the increment conditional at the database level,
// so two captures racing for the last use serialize on the row and only one
// wins.
func (r *repo) Redeem(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false, nil
	}

	res := db.WithContext(ctx).Exec(
		`UPDATE coupons
		 SET used_count = used_count + 1
		 WHERE code = ? AND is_active AND used_count < max_usage`,
		code,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
