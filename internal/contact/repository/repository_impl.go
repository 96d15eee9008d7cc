package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/mmml-co/mmml-backend/internal/contact/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}

	var item domain.Contact
	err := db.WithContext(ctx).
		Where("email = ?", email).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, contact *domain.Contact) error {
	contact.Email = strings.ToLower(strings.TrimSpace(contact.Email))
	if contact.Email == "" {
		return domain.ErrInvalidEmail
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(contact).Error
}

// Merge applies a selective update: identity fields fill only when the stored
// value is empty, flags only turn on, and nothing the patch does not carry is
// touched. The contact table has several writers, so a blind Save here would
// clobber another flow's data.
func (r *repo) Merge(ctx context.Context, db *gorm.DB, id snowflake.ID, patch domain.Patch) error {
	var existing domain.Contact
	if err := db.WithContext(ctx).Where("id = ?", id).First(&existing).Error; err != nil {
		return err
	}

	updates := map[string]any{}

	fillIfEmpty(updates, "salutation", existing.Salutation, patch.Salutation)
	fillIfEmpty(updates, "fullname", existing.FullName, patch.FullName)
	fillIfEmpty(updates, "firstname", existing.FirstName, patch.FirstName)
	fillIfEmpty(updates, "lastname", existing.LastName, patch.LastName)
	fillIfEmpty(updates, "designation", existing.Designation, patch.Designation)
	fillIfEmpty(updates, "company", existing.Company, patch.Company)
	fillIfEmpty(updates, "phone", existing.Phone, patch.Phone)
	fillIfEmpty(updates, "linkedin", existing.LinkedIn, patch.LinkedIn)
	fillIfEmpty(updates, "years_of_experience", existing.YearsOfExperience, patch.YearsOfExperience)
	fillIfEmpty(updates, "dietary_preference", existing.DietaryPreference, patch.DietaryPreference)
	fillIfEmpty(updates, "referral_source", existing.ReferralSource, patch.ReferralSource)

	// These always refresh when the patch carries them.
	if strings.TrimSpace(patch.Status) != "" {
		updates["status"] = patch.Status
	}
	if strings.TrimSpace(patch.MMML) != "" {
		updates["mmml"] = patch.MMML
	}
	if strings.TrimSpace(patch.CouponCode) != "" {
		updates["coupon_code"] = patch.CouponCode
	}
	if patch.RegisteredAt != nil {
		updates["last_registered_at"] = patch.RegisteredAt.UTC()
	}

	if column := domain.VenueColumn(patch.Venue); column != "" {
		updates[column] = true
	}

	if len(updates) == 0 {
		return nil
	}

	return db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func fillIfEmpty(updates map[string]any, column, current, incoming string) {
	if strings.TrimSpace(current) != "" {
		return
	}
	incoming = strings.TrimSpace(incoming)
	if incoming == "" {
		return
	}
	updates[column] = incoming
}
