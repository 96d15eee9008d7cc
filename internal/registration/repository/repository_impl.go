package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mmml-co/mmml-backend/internal/registration/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByEmailVenue(ctx context.Context, db *gorm.DB, email, venue string) (*domain.EventRegistration, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	venue = strings.ToLower(strings.TrimSpace(venue))

	var item domain.EventRegistration
	err := db.WithContext(ctx).
		Where("email = ? AND venue = ?", email, venue).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, reg *domain.EventRegistration) error {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Venue = strings.ToLower(strings.TrimSpace(reg.Venue))
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(reg).Error
}
