package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// EventRegistration is one confirmed seat: at most one row per
// (email, venue) pair, enforced by a unique index. Rows are created by the
// webhook reconciler or the public registration form and never updated.
type EventRegistration struct {
	ID                  snowflake.ID `json:"id" gorm:"primaryKey"`
	Salutation          string       `json:"salutation" gorm:"type:varchar(20)"`
	FirstName           string       `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName            string       `json:"last_name" gorm:"type:varchar(100)"`
	Email               string       `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_registration_email_venue"`
	PhoneNumber         string       `json:"phone_number" gorm:"type:varchar(20)"`
	Company             string       `json:"company" gorm:"type:varchar(255)"`
	JobTitle            string       `json:"job_title" gorm:"type:varchar(255)"`
	YearsOfExperience   string       `json:"years_of_experience" gorm:"type:varchar(50)"`
	TopicsOfInterest    string       `json:"topics_of_interest" gorm:"type:text"`
	DietaryRestrictions string       `json:"dietary_restrictions" gorm:"type:text"`
	ReferralSource      string       `json:"referral_source" gorm:"type:varchar(100)"`
	LinkedIn            string       `json:"linkedin" gorm:"column:linkedin;type:varchar(255)"`
	Venue               string       `json:"venue" gorm:"type:varchar(100);not null;uniqueIndex:idx_registration_email_venue"`
	CreatedAt           time.Time    `json:"created_at" gorm:"not null"`
}

func (EventRegistration) TableName() string { return "event_registrations" }

type Repository interface {
	FindByEmailVenue(ctx context.Context, db *gorm.DB, email, venue string) (*EventRegistration, error)
	Create(ctx context.Context, db *gorm.DB, reg *EventRegistration) error
}
