package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/mmml-co/mmml-backend/internal/config"
	contactdomain "github.com/mmml-co/mmml-backend/internal/contact/domain"
	coupondomain "github.com/mmml-co/mmml-backend/internal/coupon/domain"
	"github.com/mmml-co/mmml-backend/internal/notify"
	obsmetrics "github.com/mmml-co/mmml-backend/internal/observability/metrics"
	paymentdomain "github.com/mmml-co/mmml-backend/internal/payment/domain"
	registrationdomain "github.com/mmml-co/mmml-backend/internal/registration/domain"
	"github.com/mmml-co/mmml-backend/internal/webhook/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Cfg           config.Config
	Registrations registrationdomain.Repository
	Contacts      contactdomain.Repository
	Coupons       coupondomain.Repository
	Payments      paymentdomain.Repository
	Dispatcher    *notify.Dispatcher
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	secret        string
	registrations registrationdomain.Repository
	contacts      contactdomain.Repository
	coupons       coupondomain.Repository
	payments      paymentdomain.Repository
	dispatcher    *notify.Dispatcher
	metrics       *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("webhook.service"),
		genID:         p.GenID,
		secret:        p.Cfg.WebhookSecret,
		registrations: p.Registrations,
		contacts:      p.Contacts,
		coupons:       p.Coupons,
		payments:      p.Payments,
		dispatcher:    p.Dispatcher,
		metrics:       p.Metrics,
	}
}

// Process runs one webhook delivery end to end. It returns an error only for
// signature and parse failures, which the handler answers with 400 so the
// gateway retries; every other terminal state comes back as a Result and is
// acknowledged with 200.
func (s *Service) Process(ctx context.Context, payload []byte, headers http.Header) (*domain.Result, error) {
	if err := VerifySignature(s.secret, payload, headers); err != nil {
		s.log.Warn("rejected webhook delivery", zap.Error(err))
		s.metrics.RecordWebhookOutcome("rejected")
		return nil, err
	}

	registrant, err := Normalize(payload)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventIgnored):
			s.metrics.RecordWebhookOutcome(string(domain.OutcomeIgnored))
			return &domain.Result{Outcome: domain.OutcomeIgnored, Detail: "event ignored"}, nil
		case errors.Is(err, domain.ErrIncompleteData):
			s.log.Warn("captured payment missing registrant email, skipping")
			s.metrics.RecordWebhookOutcome(string(domain.OutcomeIgnored))
			return &domain.Result{Outcome: domain.OutcomeIgnored, Detail: "incomplete payment data"}, nil
		default:
			s.metrics.RecordWebhookOutcome("rejected")
			return nil, err
		}
	}

	if registrant.ExtraSource == domain.ExtraParsedFromString {
		s.log.Info("recovered notes.extra from malformed string",
			zap.String("payment_id", registrant.PaymentID),
		)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.reconcile(ctx, tx, registrant, payload)
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyProcessed):
		s.log.Info("payment already processed, skipping",
			zap.String("payment_id", registrant.PaymentID),
		)
		s.metrics.RecordWebhookOutcome(string(domain.OutcomeIgnored))
		return &domain.Result{Outcome: domain.OutcomeIgnored, Detail: "payment already processed"}, nil
	case err != nil:
		// Acknowledge anyway: the gateway's retries would hit the same
		// failure, and a 4xx/5xx storm helps nobody. The drop is counted
		// for manual reconciliation.
		s.log.Error("failed to reconcile captured payment",
			zap.String("payment_id", registrant.PaymentID),
			zap.String("email", registrant.Email),
			zap.Error(err),
		)
		s.metrics.RecordWebhookOutcome(string(domain.OutcomeFailedSoft))
		s.metrics.RecordDroppedEvent()
		return &domain.Result{Outcome: domain.OutcomeFailedSoft, Detail: "DB update failed"}, nil
	}

	s.sendConfirmation(registrant)
	s.metrics.RecordWebhookOutcome(string(domain.OutcomeApplied))
	return &domain.Result{Outcome: domain.OutcomeApplied, Detail: "user registered"}, nil
}

// reconcile applies every effect of one captured payment inside the caller's
// transaction. Writing the processed-payment marker last means a rollback
// leaves the delivery fully unapplied and retryable.
func (s *Service) reconcile(ctx context.Context, tx *gorm.DB, registrant *domain.Registrant, payload []byte) error {
	processed, err := s.payments.Exists(ctx, tx, registrant.PaymentID)
	if err != nil {
		return err
	}
	if processed {
		return domain.ErrAlreadyProcessed
	}

	s.redeemCoupon(ctx, tx, registrant)

	if err := s.upsertRegistration(ctx, tx, registrant); err != nil {
		return err
	}
	if err := s.upsertContact(ctx, tx, registrant); err != nil {
		return err
	}

	inserted, err := s.payments.Record(ctx, tx, &paymentdomain.ProcessedPayment{
		ID:        s.genID.Generate(),
		PaymentID: registrant.PaymentID,
		Payload:   datatypes.JSON(payload),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !inserted {
		// Lost a race with a concurrent delivery of the same payment.
		return domain.ErrAlreadyProcessed
	}
	return nil
}

// redeemCoupon consumes one usage of the registrant's coupon. Redemption is
// best effort: an exhausted, inactive, or unknown code must not block the
// registration of an already captured payment.
func (s *Service) redeemCoupon(ctx context.Context, tx *gorm.DB, registrant *domain.Registrant) {
	if registrant.CouponCode == "" {
		return
	}

	redeemed, err := s.coupons.Redeem(ctx, tx, registrant.CouponCode)
	switch {
	case err != nil:
		s.log.Error("coupon redemption failed",
			zap.String("coupon_code", registrant.CouponCode),
			zap.String("payment_id", registrant.PaymentID),
			zap.Error(err),
		)
		s.metrics.RecordCouponRedemption("error")
	case !redeemed:
		s.log.Warn("coupon not redeemable at capture time",
			zap.String("coupon_code", registrant.CouponCode),
			zap.String("payment_id", registrant.PaymentID),
		)
		s.metrics.RecordCouponRedemption("rejected")
	default:
		s.metrics.RecordCouponRedemption("ok")
	}
}

func (s *Service) upsertRegistration(ctx context.Context, tx *gorm.DB, registrant *domain.Registrant) error {
	existing, err := s.registrations.FindByEmailVenue(ctx, tx, registrant.Email, registrant.Venue)
	if err != nil {
		return err
	}
	if existing != nil {
		s.log.Warn("registration already exists for email and venue, possible double charge",
			zap.String("email", registrant.Email),
			zap.String("venue", registrant.Venue),
			zap.String("payment_id", registrant.PaymentID),
		)
		return nil
	}

	return s.registrations.Create(ctx, tx, &registrationdomain.EventRegistration{
		ID:                  s.genID.Generate(),
		Salutation:          registrant.Salutation,
		FirstName:           registrant.FirstName,
		LastName:            registrant.LastName,
		Email:               registrant.Email,
		PhoneNumber:         registrant.PhoneNumber,
		Company:             registrant.Company,
		JobTitle:            registrant.JobTitle,
		YearsOfExperience:   registrant.YearsOfExperience,
		TopicsOfInterest:    registrant.TopicsOfInterest,
		DietaryRestrictions: registrant.DietaryRestrictions,
		ReferralSource:      registrant.ReferralSource,
		LinkedIn:            registrant.LinkedIn,
		Venue:               registrant.Venue,
	})
}

func (s *Service) upsertContact(ctx context.Context, tx *gorm.DB, registrant *domain.Registrant) error {
	now := time.Now().UTC()
	existing, err := s.contacts.FindByEmail(ctx, tx, registrant.Email)
	if err != nil {
		return err
	}

	if existing == nil {
		contact := &contactdomain.Contact{
			ID:                s.genID.Generate(),
			Salutation:        registrant.Salutation,
			FullName:          registrant.FullName(),
			FirstName:         registrant.FirstName,
			LastName:          registrant.LastName,
			Email:             registrant.Email,
			Designation:       registrant.JobTitle,
			Company:           registrant.Company,
			Phone:             registrant.PhoneNumber,
			Status:            "Attendee",
			MMML:              "Yes",
			LinkedIn:          registrant.LinkedIn,
			CouponCode:        registrant.CouponCode,
			YearsOfExperience: registrant.YearsOfExperience,
			DietaryPreference: registrant.DietaryRestrictions,
			ReferralSource:    registrant.ReferralSource,
			LastRegisteredAt:  &now,
		}
		contact.SetVenueFlag(registrant.Venue)
		return s.contacts.Create(ctx, tx, contact)
	}

	return s.contacts.Merge(ctx, tx, existing.ID, contactdomain.Patch{
		Salutation:        registrant.Salutation,
		FullName:          registrant.FullName(),
		FirstName:         registrant.FirstName,
		LastName:          registrant.LastName,
		Designation:       registrant.JobTitle,
		Company:           registrant.Company,
		Phone:             registrant.PhoneNumber,
		Status:            "Attendee",
		MMML:              "Yes",
		LinkedIn:          registrant.LinkedIn,
		CouponCode:        registrant.CouponCode,
		YearsOfExperience: registrant.YearsOfExperience,
		DietaryPreference: registrant.DietaryRestrictions,
		ReferralSource:    registrant.ReferralSource,
		Venue:             registrant.Venue,
		RegisteredAt:      &now,
	})
}

// sendConfirmation queues the post-payment email after the transaction has
// committed. Delivery problems never surface to the gateway.
func (s *Service) sendConfirmation(registrant *domain.Registrant) {
	if s.dispatcher == nil {
		return
	}

	name := registrant.FullName()
	if name == "" {
		name = "there"
	}
	eventName := registrant.EventName
	if eventName == "" {
		eventName = "MMML"
	}

	s.dispatcher.Enqueue(notify.Message{
		To:       []string{registrant.Email},
		Subject:  "Your registration for " + eventName + " is confirmed",
		Template: notify.TemplateRegistrationConfirmation,
		Data: map[string]any{
			"UserName":    name,
			"EventName":   eventName,
			"EventDate":   registrant.EventDate,
			"EventTime":   registrant.EventTime,
			"EventCity":   registrant.Venue,
			"VenueStatus": registrant.VenueStatus,
		},
	})
}
