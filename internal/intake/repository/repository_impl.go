package repository

import (
	"context"
	"strings"
	"time"

	"github.com/mmml-co/mmml-backend/internal/intake/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateUser(ctx context.Context, db *gorm.DB, user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) CreateWaitlist(ctx context.Context, db *gorm.DB, reg *domain.WaitlistRegistration) error {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(reg).Error
}

func (r *repo) CreateContactMessage(ctx context.Context, db *gorm.DB, msg *domain.ContactMessage) error {
	msg.Email = strings.ToLower(strings.TrimSpace(msg.Email))
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(msg).Error
}

func (r *repo) CreateSpeakerApplication(ctx context.Context, db *gorm.DB, app *domain.SpeakerApplication) error {
	app.Email = strings.ToLower(strings.TrimSpace(app.Email))
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(app).Error
}

func (r *repo) CreateSponsorshipInquiry(ctx context.Context, db *gorm.DB, inquiry *domain.SponsorshipInquiry) error {
	inquiry.Email = strings.ToLower(strings.TrimSpace(inquiry.Email))
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(inquiry).Error
}

func (r *repo) CreatePartnershipProposal(ctx context.Context, db *gorm.DB, proposal *domain.PartnershipProposal) error {
	proposal.Email = strings.ToLower(strings.TrimSpace(proposal.Email))
	if proposal.CreatedAt.IsZero() {
		proposal.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(proposal).Error
}

func (r *repo) CreateVolunteerApplication(ctx context.Context, db *gorm.DB, app *domain.VolunteerApplication) error {
	app.Email = strings.ToLower(strings.TrimSpace(app.Email))
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(app).Error
}
