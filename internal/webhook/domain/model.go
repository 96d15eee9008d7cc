package domain

import (
	"context"
	"errors"
	"net/http"
)

// SignatureHeader carries the gateway's hex-encoded HMAC-SHA256 of the raw
// request body.
const SignatureHeader = "X-Razorpay-Signature"

// EventPaymentCaptured is the only event kind this flow applies; everything
// else is acknowledged and dropped so the gateway stops retrying.
const EventPaymentCaptured = "payment.captured"

var (
	ErrMissingSignature = errors.New("missing_signature")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrEventIgnored     = errors.New("event_ignored")
	ErrIncompleteData   = errors.New("incomplete_data")
	ErrAlreadyProcessed = errors.New("payment_already_processed")
)

// ExtraSource tags how the notes.extra field was recovered.
type ExtraSource string

const (
	ExtraStructured       ExtraSource = "structured"
	ExtraParsedFromString ExtraSource = "parsed_from_string"
	ExtraEmpty            ExtraSource = "empty"
)

// Registrant is the normalized view of a captured-payment webhook: everything
// the reconciler needs, with absent fields left empty rather than failing.
type Registrant struct {
	PaymentID string

	Email               string
	Salutation          string
	FirstName           string
	LastName            string
	PhoneNumber         string
	Company             string
	JobTitle            string
	YearsOfExperience   string
	TopicsOfInterest    string
	DietaryRestrictions string
	ReferralSource      string
	LinkedIn            string

	Venue       string
	EventName   string
	EventDate   string
	EventTime   string
	VenueStatus string
	CouponCode  string

	ExtraSource ExtraSource
}

func (r *Registrant) FullName() string {
	switch {
	case r.FirstName != "" && r.LastName != "":
		return r.FirstName + " " + r.LastName
	case r.FirstName != "":
		return r.FirstName
	default:
		return r.LastName
	}
}

// Outcome is a terminal state of one webhook delivery.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeIgnored    Outcome = "ignored"
	OutcomeFailedSoft Outcome = "failed_soft"
)

// Result reports how a delivery terminated. Signature and parse failures are
// returned as errors instead; every Result answers HTTP 200.
type Result struct {
	Outcome Outcome
	Detail  string
}

type Service interface {
	Process(ctx context.Context, payload []byte, headers http.Header) (*Result, error)
}
