package service

import (
	"encoding/json"
	"strings"

	"github.com/mmml-co/mmml-backend/internal/webhook/domain"
)

type envelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string         `json:"id"`
				Notes map[string]any `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Normalize parses the gateway envelope into a Registrant. Non-captured
// events and payloads without an email short-circuit with sentinel errors;
// only an unparseable body is treated as a hard failure.
func Normalize(payload []byte) (*domain.Registrant, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	if strings.TrimSpace(env.Event) != domain.EventPaymentCaptured {
		return nil, domain.ErrEventIgnored
	}

	entity := env.Payload.Payment.Entity
	paymentID := strings.TrimSpace(entity.ID)
	if paymentID == "" {
		return nil, domain.ErrIncompleteData
	}

	notes := entity.Notes
	extra, source := decodeExtra(notes["extra"])

	email := strings.ToLower(field(notes, extra, "email"))
	if email == "" {
		return nil, domain.ErrIncompleteData
	}

	return &domain.Registrant{
		PaymentID:           paymentID,
		Email:               email,
		Salutation:          field(notes, extra, "salutation"),
		FirstName:           field(notes, extra, "first_name"),
		LastName:            field(notes, extra, "last_name"),
		PhoneNumber:         field(notes, extra, "phone_number", "phone"),
		Company:             field(notes, extra, "company"),
		JobTitle:            field(notes, extra, "job_title"),
		YearsOfExperience:   field(notes, extra, "years_of_experience"),
		TopicsOfInterest:    field(notes, extra, "topics_of_interest"),
		DietaryRestrictions: field(notes, extra, "dietary_restrictions"),
		ReferralSource:      field(notes, extra, "referral_source"),
		LinkedIn:            field(notes, extra, "linkedin", "linkedin_profile"),
		Venue:               strings.ToLower(field(notes, extra, "venue")),
		EventName:           field(notes, extra, "event_name", "event"),
		EventDate:           field(notes, extra, "date", "event_date"),
		EventTime:           field(notes, extra, "time", "event_time"),
		VenueStatus:         field(notes, extra, "venue_status"),
		CouponCode:          strings.ToUpper(field(notes, extra, "coupon_code", "coupon")),
		ExtraSource:         source,
	}, nil
}

// decodeExtra recovers the notes.extra value, which is supposed to be a
// JSON-encoded object but arrives in three shapes: already decoded, a
// well-formed JSON string, or a single-quoted string the client failed to
// encode properly. Total failure degrades to empty, never to an error.
func decodeExtra(value any) (map[string]any, domain.ExtraSource) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, domain.ExtraStructured
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return nil, domain.ExtraEmpty
		}

		var out map[string]any
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
			return out, domain.ExtraParsedFromString
		}

		repaired := strings.ReplaceAll(trimmed, "'", `"`)
		if err := json.Unmarshal([]byte(repaired), &out); err == nil {
			return out, domain.ExtraParsedFromString
		}

		return nil, domain.ExtraEmpty
	default:
		return nil, domain.ExtraEmpty
	}
}

// field reads the first non-empty value for any of the keys, preferring the
// top-level notes map over the recovered extra map.
func field(notes, extra map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := stringValue(notes[key]); v != "" {
			return v
		}
	}
	for _, key := range keys {
		if v := stringValue(extra[key]); v != "" {
			return v
		}
	}
	return ""
}

func stringValue(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
