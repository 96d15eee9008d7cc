package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/mmml-co/mmml-backend/internal/config"
	contactdomain "github.com/mmml-co/mmml-backend/internal/contact/domain"
	"github.com/mmml-co/mmml-backend/internal/intake/domain"
	"github.com/mmml-co/mmml-backend/internal/notify"
	obsmetrics "github.com/mmml-co/mmml-backend/internal/observability/metrics"
	registrationdomain "github.com/mmml-co/mmml-backend/internal/registration/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Cfg           config.Config
	Repo          domain.Repository
	Registrations registrationdomain.Repository
	Contacts      contactdomain.Repository
	Dispatcher    *notify.Dispatcher
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	adminEmail    string
	repo          domain.Repository
	registrations registrationdomain.Repository
	contacts      contactdomain.Repository
	dispatcher    *notify.Dispatcher
	metrics       *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("intake.service"),
		genID:         p.GenID,
		adminEmail:    p.Cfg.Email.AdminEmail,
		repo:          p.Repo,
		registrations: p.Registrations,
		contacts:      p.Contacts,
		dispatcher:    p.Dispatcher,
		metrics:       p.Metrics,
	}
}

func (s *Service) CreateUser(ctx context.Context, req domain.UserRequest) (snowflake.ID, error) {
	user := &domain.User{
		ID:          s.genID.Generate(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Company:     req.Company,
		JobTitle:    req.JobTitle,
	}
	if err := s.repo.CreateUser(ctx, s.db, user); err != nil {
		return 0, err
	}

	s.accepted(domain.FormUser, user.Email, req.FirstName+" "+req.LastName, map[string]any{
		"first_name":   req.FirstName,
		"last_name":    req.LastName,
		"email":        user.Email,
		"phone_number": req.PhoneNumber,
		"company":      req.Company,
		"job_title":    req.JobTitle,
	})
	return user.ID, nil
}

func (s *Service) RegisterEvent(ctx context.Context, req domain.EventRegistrationRequest) (snowflake.ID, error) {
	reg := &registrationdomain.EventRegistration{
		ID:                  s.genID.Generate(),
		Salutation:          req.Salutation,
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		PhoneNumber:         req.PhoneNumber,
		Company:             req.Company,
		JobTitle:            req.JobTitle,
		YearsOfExperience:   req.YearsOfExperience,
		TopicsOfInterest:    req.TopicsOfInterest,
		DietaryRestrictions: req.DietaryRestrictions,
		ReferralSource:      req.ReferralSource,
		Venue:               strings.ToLower(strings.TrimSpace(req.Venue)),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.registrations.Create(ctx, tx, reg); err != nil {
			return err
		}
		return s.upsertContact(ctx, tx, contactPatch{
			email:       req.Email,
			salutation:  req.Salutation,
			firstName:   req.FirstName,
			lastName:    req.LastName,
			phone:       req.PhoneNumber,
			company:     req.Company,
			designation: req.JobTitle,
			status:      "Attendee",
			venue:       reg.Venue,
		})
	})
	if err != nil {
		return 0, err
	}

	s.accepted(domain.FormEvent, reg.Email, req.FirstName+" "+req.LastName, map[string]any{
		"first_name":           req.FirstName,
		"last_name":            req.LastName,
		"email":                reg.Email,
		"phone_number":         req.PhoneNumber,
		"company":              req.Company,
		"job_title":            req.JobTitle,
		"years_of_experience":  req.YearsOfExperience,
		"topics_of_interest":   req.TopicsOfInterest,
		"dietary_restrictions": req.DietaryRestrictions,
		"referral_source":      req.ReferralSource,
	})
	return reg.ID, nil
}

func (s *Service) JoinWaitlist(ctx context.Context, req domain.WaitlistRequest) (snowflake.ID, error) {
	reg := &domain.WaitlistRegistration{
		ID:             s.genID.Generate(),
		Salutation:     req.Salutation,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Company:        req.Company,
		JobTitle:       req.JobTitle,
		ReasonToAttend: req.ReasonToAttend,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateWaitlist(ctx, tx, reg); err != nil {
			return err
		}
		return s.upsertContact(ctx, tx, contactPatch{
			email:       req.Email,
			salutation:  req.Salutation,
			firstName:   req.FirstName,
			lastName:    req.LastName,
			phone:       req.PhoneNumber,
			company:     req.Company,
			designation: req.JobTitle,
			status:      "Waitlisted",
		})
	})
	if err != nil {
		return 0, err
	}

	s.accepted(domain.FormWaitlist, reg.Email, req.FirstName+" "+req.LastName, map[string]any{
		"first_name":       req.FirstName,
		"last_name":        req.LastName,
		"email":            reg.Email,
		"phone_number":     req.PhoneNumber,
		"company":          req.Company,
		"job_title":        req.JobTitle,
		"reason_to_attend": req.ReasonToAttend,
	})
	return reg.ID, nil
}

func (s *Service) SubmitContactMessage(ctx context.Context, req domain.ContactMessageRequest) (snowflake.ID, error) {
	msg := &domain.ContactMessage{
		ID:                  s.genID.Generate(),
		FullName:            req.FullName,
		Email:               req.Email,
		CompanyOrganization: req.CompanyOrganization,
		Message:             req.Message,
	}
	if err := s.repo.CreateContactMessage(ctx, s.db, msg); err != nil {
		return 0, err
	}

	s.accepted(domain.FormContact, msg.Email, req.FullName, map[string]any{
		"full_name":            req.FullName,
		"email":                msg.Email,
		"company_organization": req.CompanyOrganization,
		"message":              req.Message,
	})
	return msg.ID, nil
}

func (s *Service) ApplySpeaker(ctx context.Context, req domain.SpeakerApplicationRequest) (snowflake.ID, error) {
	app := &domain.SpeakerApplication{
		ID:                 s.genID.Generate(),
		FullName:           req.FullName,
		Email:              req.Email,
		Company:            req.Company,
		JobTitle:           req.JobTitle,
		LinkedInProfile:    req.LinkedInProfile,
		AreaOfExpertise:    req.AreaOfExpertise,
		ProposedTopicTitle: req.ProposedTopicTitle,
		TopicDescription:   req.TopicDescription,
		SpeakingExperience: req.SpeakingExperience,
	}

	first, last := splitName(req.FullName)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateSpeakerApplication(ctx, tx, app); err != nil {
			return err
		}
		return s.upsertContact(ctx, tx, contactPatch{
			email:       req.Email,
			fullName:    req.FullName,
			firstName:   first,
			lastName:    last,
			company:     req.Company,
			designation: req.JobTitle,
			linkedin:    req.LinkedInProfile,
			status:      "Speaker",
		})
	})
	if err != nil {
		return 0, err
	}

	s.accepted(domain.FormSpeaker, app.Email, req.FullName, map[string]any{
		"full_name":            req.FullName,
		"email":                app.Email,
		"company":              req.Company,
		"job_title":            req.JobTitle,
		"linkedin_profile":     req.LinkedInProfile,
		"area_of_expertise":    req.AreaOfExpertise,
		"proposed_topic_title": req.ProposedTopicTitle,
		"topic_description":    req.TopicDescription,
		"speaking_experience":  req.SpeakingExperience,
	})
	return app.ID, nil
}

func (s *Service) InquireSponsorship(ctx context.Context, req domain.SponsorshipInquiryRequest) (snowflake.ID, error) {
	inquiry := &domain.SponsorshipInquiry{
		ID:                         s.genID.Generate(),
		CompanyName:                req.CompanyName,
		ContactName:                req.ContactName,
		Email:                      req.Email,
		Phone:                      req.Phone,
		CompanyWebsite:             req.CompanyWebsite,
		InterestedSponsorshipLevel: req.InterestedSponsorshipLevel,
		MarketingObjectives:        req.MarketingObjectives,
		BudgetRange:                req.BudgetRange,
		Timeline:                   req.Timeline,
	}
	if err := s.repo.CreateSponsorshipInquiry(ctx, s.db, inquiry); err != nil {
		return 0, err
	}

	s.accepted(domain.FormSponsorship, inquiry.Email, req.ContactName, map[string]any{
		"company_name":                 req.CompanyName,
		"contact_name":                 req.ContactName,
		"email":                        inquiry.Email,
		"phone":                        req.Phone,
		"company_website":              req.CompanyWebsite,
		"interested_sponsorship_level": req.InterestedSponsorshipLevel,
		"marketing_objectives":         req.MarketingObjectives,
		"budget_range":                 req.BudgetRange,
		"timeline":                     req.Timeline,
	})
	return inquiry.ID, nil
}

func (s *Service) ProposePartnership(ctx context.Context, req domain.PartnershipProposalRequest) (snowflake.ID, error) {
	proposal := &domain.PartnershipProposal{
		ID:                   s.genID.Generate(),
		OrganizationName:     req.OrganizationName,
		ContactName:          req.ContactName,
		Email:                req.Email,
		Phone:                req.Phone,
		OrganizationWebsite:  req.OrganizationWebsite,
		PartnershipType:      req.PartnershipType,
		PartnershipProposal:  req.PartnershipProposal,
		AudienceCommunity:    req.AudienceCommunity,
		ResourcesContributed: req.ResourcesContributed,
	}
	if err := s.repo.CreatePartnershipProposal(ctx, s.db, proposal); err != nil {
		return 0, err
	}

	s.accepted(domain.FormPartnership, proposal.Email, req.ContactName, map[string]any{
		"organization_name":     req.OrganizationName,
		"contact_name":          req.ContactName,
		"email":                 proposal.Email,
		"phone":                 req.Phone,
		"organization_website":  req.OrganizationWebsite,
		"partnership_type":      req.PartnershipType,
		"partnership_proposal":  req.PartnershipProposal,
		"audience_community":    req.AudienceCommunity,
		"resources_contributed": req.ResourcesContributed,
	})
	return proposal.ID, nil
}

func (s *Service) ApplyVolunteer(ctx context.Context, req domain.VolunteerApplicationRequest) (snowflake.ID, error) {
	app := &domain.VolunteerApplication{
		ID:                       s.genID.Generate(),
		FullName:                 req.FullName,
		Email:                    req.Email,
		PhoneNumber:              req.PhoneNumber,
		Profession:               req.Profession,
		CompanyOrganization:      req.CompanyOrganization,
		VolunteerExperience:      req.VolunteerExperience,
		Availability:             req.Availability,
		RelevantSkillsExperience: req.RelevantSkillsExperience,
		AreasOfInterest:          req.AreasOfInterest,
		Motivation:               req.Motivation,
	}

	first, last := splitName(req.FullName)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.CreateVolunteerApplication(ctx, tx, app); err != nil {
			return err
		}
		return s.upsertContact(ctx, tx, contactPatch{
			email:       req.Email,
			fullName:    req.FullName,
			firstName:   first,
			lastName:    last,
			phone:       req.PhoneNumber,
			company:     req.CompanyOrganization,
			designation: req.Profession,
			status:      "Volunteer",
		})
	})
	if err != nil {
		return 0, err
	}

	s.accepted(domain.FormVolunteer, app.Email, req.FullName, map[string]any{
		"full_name":                  req.FullName,
		"email":                      app.Email,
		"phone_number":               req.PhoneNumber,
		"profession":                 req.Profession,
		"company_organization":       req.CompanyOrganization,
		"volunteer_experience":       req.VolunteerExperience,
		"availability":               req.Availability,
		"relevant_skills_experience": req.RelevantSkillsExperience,
		"areas_of_interest":          req.AreasOfInterest,
		"motivation":                 req.Motivation,
	})
	return app.ID, nil
}

// contactPatch is the subset of a submission mirrored into crm_contacts.
type contactPatch struct {
	email       string
	salutation  string
	fullName    string
	firstName   string
	lastName    string
	phone       string
	company     string
	designation string
	linkedin    string
	status      string
	venue       string
}

func (s *Service) upsertContact(ctx context.Context, tx *gorm.DB, patch contactPatch) error {
	fullName := patch.fullName
	if fullName == "" {
		fullName = strings.TrimSpace(patch.firstName + " " + patch.lastName)
	}

	existing, err := s.contacts.FindByEmail(ctx, tx, patch.email)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if existing == nil {
		contact := &contactdomain.Contact{
			ID:               s.genID.Generate(),
			Salutation:       patch.salutation,
			FullName:         fullName,
			FirstName:        patch.firstName,
			LastName:         patch.lastName,
			Email:            patch.email,
			Designation:      patch.designation,
			Company:          patch.company,
			Phone:            patch.phone,
			Status:           patch.status,
			MMML:             "Yes",
			LinkedIn:         patch.linkedin,
			LastRegisteredAt: &now,
		}
		contact.SetVenueFlag(patch.venue)
		return s.contacts.Create(ctx, tx, contact)
	}

	return s.contacts.Merge(ctx, tx, existing.ID, contactdomain.Patch{
		Salutation:   patch.salutation,
		FullName:     fullName,
		FirstName:    patch.firstName,
		LastName:     patch.lastName,
		Designation:  patch.designation,
		Company:      patch.company,
		Phone:        patch.phone,
		Status:       patch.status,
		MMML:         "Yes",
		LinkedIn:     patch.linkedin,
		Venue:        patch.venue,
		RegisteredAt: &now,
	})
}

// accepted queues the pair of confirmation emails and counts the submission.
func (s *Service) accepted(form domain.Form, email, name string, data map[string]any) {
	s.metrics.RecordIntake(string(form))
	if s.dispatcher == nil {
		return
	}

	submittedAt := time.Now().UTC().Format("2006-01-02 15:04:05")
	s.dispatcher.Enqueue(notify.Message{
		To:       []string{email},
		Subject:  "Thank you for your " + string(form) + " submission",
		Template: notify.TemplateUserConfirmation,
		Data: map[string]any{
			"UserName":    name,
			"FormType":    string(form),
			"FormData":    data,
			"SubmittedAt": submittedAt,
		},
	})
	if s.adminEmail != "" {
		s.dispatcher.Enqueue(notify.Message{
			To:       []string{s.adminEmail},
			Subject:  "New " + string(form) + " submission",
			Template: notify.TemplateAdminNotification,
			Data: map[string]any{
				"FormType":    string(form),
				"FormData":    data,
				"SubmittedAt": submittedAt,
			},
		})
	}
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
