package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Form identifies one public intake flow. The value doubles as the metrics
// label and the human-readable form type in notification emails.
type Form string

const (
	FormUser        Form = "User Registration"
	FormEvent       Form = "Event Registration"
	FormWaitlist    Form = "Waitlist Registration"
	FormContact     Form = "Contact Message"
	FormSpeaker     Form = "Speaker Application"
	FormSponsorship Form = "Sponsorship Inquiry"
	FormPartnership Form = "Partnership Proposal"
	FormVolunteer   Form = "Volunteer Application"
)

type User struct {
	ID          snowflake.ID `json:"user_id" gorm:"primaryKey"`
	FirstName   string       `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName    string       `json:"last_name" gorm:"type:varchar(100);not null"`
	Email       string       `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PhoneNumber string       `json:"phone_number" gorm:"type:varchar(20);not null"`
	Company     string       `json:"company" gorm:"type:varchar(255)"`
	JobTitle    string       `json:"job_title" gorm:"type:varchar(255)"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
}

func (User) TableName() string { return "users" }

type WaitlistRegistration struct {
	ID             snowflake.ID `json:"waitlist_id" gorm:"primaryKey"`
	Salutation     string       `json:"salutation" gorm:"type:varchar(20)"`
	FirstName      string       `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName       string       `json:"last_name" gorm:"type:varchar(100);not null"`
	Email          string       `json:"email" gorm:"type:varchar(255);not null"`
	PhoneNumber    string       `json:"phone_number" gorm:"type:varchar(20);not null"`
	Company        string       `json:"company" gorm:"type:varchar(255)"`
	JobTitle       string       `json:"job_title" gorm:"type:varchar(255)"`
	ReasonToAttend string       `json:"reason_to_attend" gorm:"type:text"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null"`
}

func (WaitlistRegistration) TableName() string { return "waitlist_registrations" }

type ContactMessage struct {
	ID                  snowflake.ID `json:"message_id" gorm:"primaryKey"`
	FullName            string       `json:"full_name" gorm:"type:varchar(100);not null"`
	Email               string       `json:"email" gorm:"type:varchar(255);not null"`
	CompanyOrganization string       `json:"company_organization" gorm:"type:varchar(255)"`
	Message             string       `json:"message" gorm:"type:text;not null"`
	CreatedAt           time.Time    `json:"created_at" gorm:"not null"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

type SpeakerApplication struct {
	ID                 snowflake.ID `json:"application_id" gorm:"primaryKey"`
	FullName           string       `json:"full_name" gorm:"type:varchar(100);not null"`
	Email              string       `json:"email" gorm:"type:varchar(255);not null"`
	Company            string       `json:"company" gorm:"type:varchar(255);not null"`
	JobTitle           string       `json:"job_title" gorm:"type:varchar(255);not null"`
	LinkedInProfile    string       `json:"linkedin_profile" gorm:"column:linkedin_profile;type:varchar(255)"`
	AreaOfExpertise    string       `json:"area_of_expertise" gorm:"type:varchar(100);not null"`
	ProposedTopicTitle string       `json:"proposed_topic_title" gorm:"type:varchar(255);not null"`
	TopicDescription   string       `json:"topic_description" gorm:"type:text;not null"`
	SpeakingExperience string       `json:"speaking_experience" gorm:"type:varchar(50)"`
	CreatedAt          time.Time    `json:"created_at" gorm:"not null"`
}

func (SpeakerApplication) TableName() string { return "speaker_applications" }

type SponsorshipInquiry struct {
	ID                         snowflake.ID `json:"inquiry_id" gorm:"primaryKey"`
	CompanyName                string       `json:"company_name" gorm:"type:varchar(255);not null"`
	ContactName                string       `json:"contact_name" gorm:"type:varchar(100);not null"`
	Email                      string       `json:"email" gorm:"type:varchar(255);not null"`
	Phone                      string       `json:"phone" gorm:"type:varchar(20)"`
	CompanyWebsite             string       `json:"company_website" gorm:"type:varchar(255)"`
	InterestedSponsorshipLevel string       `json:"interested_sponsorship_level" gorm:"type:varchar(100)"`
	MarketingObjectives        string       `json:"marketing_objectives" gorm:"type:text;not null"`
	BudgetRange                string       `json:"budget_range" gorm:"type:varchar(50)"`
	Timeline                   string       `json:"timeline" gorm:"type:varchar(50)"`
	CreatedAt                  time.Time    `json:"created_at" gorm:"not null"`
}

func (SponsorshipInquiry) TableName() string { return "sponsorship_inquiries" }

type PartnershipProposal struct {
	ID                   snowflake.ID `json:"proposal_id" gorm:"primaryKey"`
	OrganizationName     string       `json:"organization_name" gorm:"type:varchar(255);not null"`
	ContactName          string       `json:"contact_name" gorm:"type:varchar(100);not null"`
	Email                string       `json:"email" gorm:"type:varchar(255);not null"`
	Phone                string       `json:"phone" gorm:"type:varchar(20)"`
	OrganizationWebsite  string       `json:"organization_website" gorm:"type:varchar(255)"`
	PartnershipType      string       `json:"partnership_type" gorm:"type:varchar(100);not null"`
	PartnershipProposal  string       `json:"partnership_proposal" gorm:"type:text;not null"`
	AudienceCommunity    string       `json:"audience_community" gorm:"type:text"`
	ResourcesContributed string       `json:"resources_contributed" gorm:"type:text"`
	CreatedAt            time.Time    `json:"created_at" gorm:"not null"`
}

func (PartnershipProposal) TableName() string { return "partnership_proposals" }

type VolunteerApplication struct {
	ID                       snowflake.ID `json:"application_id" gorm:"primaryKey"`
	FullName                 string       `json:"full_name" gorm:"type:varchar(100);not null"`
	Email                    string       `json:"email" gorm:"type:varchar(255);not null"`
	PhoneNumber              string       `json:"phone_number" gorm:"type:varchar(20)"`
	Profession               string       `json:"profession" gorm:"type:varchar(255);not null"`
	CompanyOrganization      string       `json:"company_organization" gorm:"type:varchar(255)"`
	VolunteerExperience      string       `json:"volunteer_experience" gorm:"type:varchar(50)"`
	Availability             string       `json:"availability" gorm:"type:varchar(50);not null"`
	RelevantSkillsExperience string       `json:"relevant_skills_experience" gorm:"type:text;not null"`
	AreasOfInterest          string       `json:"areas_of_interest" gorm:"type:text;not null"`
	Motivation               string       `json:"motivation" gorm:"type:text;not null"`
	CreatedAt                time.Time    `json:"created_at" gorm:"not null"`
}

func (VolunteerApplication) TableName() string { return "volunteer_applications" }

// Request payloads, bound and validated by the HTTP layer.

type UserRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Company     string `json:"company"`
	JobTitle    string `json:"job_title"`
}

type EventRegistrationRequest struct {
	Salutation          string `json:"salutation"`
	FirstName           string `json:"first_name" binding:"required"`
	LastName            string `json:"last_name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	PhoneNumber         string `json:"phone_number" binding:"required"`
	Company             string `json:"company"`
	JobTitle            string `json:"job_title"`
	YearsOfExperience   string `json:"years_of_experience"`
	TopicsOfInterest    string `json:"topics_of_interest"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	ReferralSource      string `json:"referral_source"`
	Venue               string `json:"venue"`
}

type WaitlistRequest struct {
	Salutation     string `json:"salutation"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	Company        string `json:"company"`
	JobTitle       string `json:"job_title"`
	ReasonToAttend string `json:"reason_to_attend"`
}

type ContactMessageRequest struct {
	FullName            string `json:"full_name" binding:"required"`
	Email               string `json:"email" binding:"required,email"`
	CompanyOrganization string `json:"company_organization"`
	Message             string `json:"message" binding:"required"`
}

type SpeakerApplicationRequest struct {
	FullName           string `json:"full_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Company            string `json:"company" binding:"required"`
	JobTitle           string `json:"job_title" binding:"required"`
	LinkedInProfile    string `json:"linkedin_profile"`
	AreaOfExpertise    string `json:"area_of_expertise" binding:"required"`
	ProposedTopicTitle string `json:"proposed_topic_title" binding:"required"`
	TopicDescription   string `json:"topic_description" binding:"required"`
	SpeakingExperience string `json:"speaking_experience"`
}

type SponsorshipInquiryRequest struct {
	CompanyName                string `json:"company_name" binding:"required"`
	ContactName                string `json:"contact_name" binding:"required"`
	Email                      string `json:"email" binding:"required,email"`
	Phone                      string `json:"phone"`
	CompanyWebsite             string `json:"company_website"`
	InterestedSponsorshipLevel string `json:"interested_sponsorship_level"`
	MarketingObjectives        string `json:"marketing_objectives" binding:"required"`
	BudgetRange                string `json:"budget_range"`
	Timeline                   string `json:"timeline"`
}

type PartnershipProposalRequest struct {
	OrganizationName     string `json:"organization_name" binding:"required"`
	ContactName          string `json:"contact_name" binding:"required"`
	Email                string `json:"email" binding:"required,email"`
	Phone                string `json:"phone"`
	OrganizationWebsite  string `json:"organization_website"`
	PartnershipType      string `json:"partnership_type" binding:"required"`
	PartnershipProposal  string `json:"partnership_proposal" binding:"required"`
	AudienceCommunity    string `json:"audience_community"`
	ResourcesContributed string `json:"resources_contributed"`
}

type VolunteerApplicationRequest struct {
	FullName                 string `json:"full_name" binding:"required"`
	Email                    string `json:"email" binding:"required,email"`
	PhoneNumber              string `json:"phone_number"`
	Profession               string `json:"profession" binding:"required"`
	CompanyOrganization      string `json:"company_organization"`
	VolunteerExperience      string `json:"volunteer_experience"`
	Availability             string `json:"availability" binding:"required"`
	RelevantSkillsExperience string `json:"relevant_skills_experience" binding:"required"`
	AreasOfInterest          string `json:"areas_of_interest" binding:"required"`
	Motivation               string `json:"motivation" binding:"required"`
}

// Service accepts public form submissions. Every method persists the raw
// submission, mirrors it into the CRM where the flow carries a contact
// status, and queues confirmation emails out-of-band.
type Service interface {
	CreateUser(ctx context.Context, req UserRequest) (snowflake.ID, error)
	RegisterEvent(ctx context.Context, req EventRegistrationRequest) (snowflake.ID, error)
	JoinWaitlist(ctx context.Context, req WaitlistRequest) (snowflake.ID, error)
	SubmitContactMessage(ctx context.Context, req ContactMessageRequest) (snowflake.ID, error)
	ApplySpeaker(ctx context.Context, req SpeakerApplicationRequest) (snowflake.ID, error)
	InquireSponsorship(ctx context.Context, req SponsorshipInquiryRequest) (snowflake.ID, error)
	ProposePartnership(ctx context.Context, req PartnershipProposalRequest) (snowflake.ID, error)
	ApplyVolunteer(ctx context.Context, req VolunteerApplicationRequest) (snowflake.ID, error)
}

// Repository persists intake rows. The gorm handle is passed per call so
// inserts can share a transaction with the CRM mirror.
type Repository interface {
	CreateUser(ctx context.Context, db *gorm.DB, user *User) error
	CreateWaitlist(ctx context.Context, db *gorm.DB, reg *WaitlistRegistration) error
	CreateContactMessage(ctx context.Context, db *gorm.DB, msg *ContactMessage) error
	CreateSpeakerApplication(ctx context.Context, db *gorm.DB, app *SpeakerApplication) error
	CreateSponsorshipInquiry(ctx context.Context, db *gorm.DB, inquiry *SponsorshipInquiry) error
	CreatePartnershipProposal(ctx context.Context, db *gorm.DB, proposal *PartnershipProposal) error
	CreateVolunteerApplication(ctx context.Context, db *gorm.DB, app *VolunteerApplication) error
}
