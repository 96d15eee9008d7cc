package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrInvalidEmail = errors.New("invalid_email")

// Contact is the unified CRM record, one row per email across every intake
// flow. It is a shared, multi-writer table: writers must merge, never
// overwrite.
type Contact struct {
	ID                snowflake.ID `json:"id" gorm:"primaryKey"`
	Salutation        string       `json:"salutation" gorm:"type:text"`
	FullName          string       `json:"fullname" gorm:"column:fullname;type:text"`
	FirstName         string       `json:"firstname" gorm:"column:firstname;type:text"`
	LastName          string       `json:"lastname" gorm:"column:lastname;type:text"`
	Email             string       `json:"email" gorm:"type:varchar(250);uniqueIndex;not null"`
	Designation       string       `json:"designation" gorm:"type:text"`
	Company           string       `json:"company" gorm:"type:text"`
	Phone             string       `json:"phone" gorm:"type:text"`
	Status            string       `json:"status" gorm:"type:text"`
	MMML              string       `json:"mmml" gorm:"column:mmml;type:text"`
	Location          string       `json:"location" gorm:"type:text"`
	LinkedIn          string       `json:"linkedin" gorm:"column:linkedin;type:text"`
	CouponCode        string       `json:"coupon_code" gorm:"type:text"`
	YearsOfExperience string       `json:"years_of_experience" gorm:"type:text"`
	DietaryPreference string       `json:"dietary_preference" gorm:"type:text"`
	ReferralSource    string       `json:"referral_source" gorm:"type:text"`
	Mumbai            bool         `json:"mumbai" gorm:"column:mumbai;not null;default:false"`
	Bengaluru         bool         `json:"bengaluru" gorm:"column:bengaluru;not null;default:false"`
	Delhi             bool         `json:"delhi" gorm:"column:delhi;not null;default:false"`
	LastRegisteredAt  *time.Time   `json:"last_registered_at"`
	LastEmailed       *time.Time   `json:"last_emailed"`
	CreatedAt         time.Time    `json:"created_at" gorm:"not null"`
}

func (Contact) TableName() string { return "crm_contacts" }

// Patch carries the fields a writer wants merged into an existing contact.
// Empty string fields are skipped; venue flags are only ever turned on.
type Patch struct {
	Salutation        string
	FullName          string
	FirstName         string
	LastName          string
	Designation       string
	Company           string
	Phone             string
	Status            string
	MMML              string
	LinkedIn          string
	CouponCode        string
	YearsOfExperience string
	DietaryPreference string
	ReferralSource    string
	Venue             string
	RegisteredAt      *time.Time
}

// Repository persists CRM contacts. Callers hand in the gorm handle so the
// merge can join an enclosing transaction.
type Repository interface {
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Contact, error)
	Create(ctx context.Context, db *gorm.DB, contact *Contact) error
	Merge(ctx context.Context, db *gorm.DB, id snowflake.ID, patch Patch) error
}

// Venue flag columns on crm_contacts.
const (
	VenueMumbai    = "mumbai"
	VenueBengaluru = "bengaluru"
	VenueDelhi     = "delhi"
)

// VenueColumn maps a free-form venue/city string from a payload onto a
// contact flag column. Unknown venues map to empty (no flag touched).
func VenueColumn(venue string) string {
	switch strings.ToLower(strings.TrimSpace(venue)) {
	case "mumbai", "bombay":
		return VenueMumbai
	case "bengaluru", "bangalore":
		return VenueBengaluru
	case "delhi", "new delhi":
		return VenueDelhi
	default:
		return ""
	}
}

// SetVenueFlag turns the matching venue flag on. Flags are never cleared.
func (c *Contact) SetVenueFlag(venue string) {
	switch VenueColumn(venue) {
	case VenueMumbai:
		c.Mumbai = true
	case VenueBengaluru:
		c.Bengaluru = true
	case VenueDelhi:
		c.Delhi = true
	}
}
