package repository

import (
	"context"
	"strings"
	"time"

	"github.com/mmml-co/mmml-backend/internal/payment/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, paymentID string) (bool, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return false, nil
	}

	var count int64
	err := db.WithContext(ctx).
		Model(&domain.ProcessedPayment{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Record(ctx context.Context, db *gorm.DB, payment *domain.ProcessedPayment) (bool, error) {
	payment.PaymentID = strings.TrimSpace(payment.PaymentID)
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}

	// DoNothing lets the unique index on payment_id absorb the race between
	// two concurrent deliveries; zero rows affected means we lost.
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).
		Create(payment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
