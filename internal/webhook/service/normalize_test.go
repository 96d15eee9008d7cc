package service

import (
	"errors"
	"testing"

	"github.com/mmml-co/mmml-backend/internal/webhook/domain"
)

func TestNormalizeStructuredNotes(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_100",
			"notes": {
				"email": "A.User@Example.com",
				"first_name": "A",
				"phone": "+911111111111",
				"venue": "Delhi",
				"extra": {"linkedin": "https://linkedin.com/in/auser"}
			}
		}}}
	}`)

	registrant, err := Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if registrant.PaymentID != "pay_100" {
		t.Fatalf("payment id = %q", registrant.PaymentID)
	}
	if registrant.Email != "a.user@example.com" {
		t.Fatalf("email not lowercased: %q", registrant.Email)
	}
	if registrant.PhoneNumber != "+911111111111" {
		t.Fatalf("phone alias not read: %q", registrant.PhoneNumber)
	}
	if registrant.Venue != "delhi" {
		t.Fatalf("venue not lowercased: %q", registrant.Venue)
	}
	if registrant.LinkedIn != "https://linkedin.com/in/auser" {
		t.Fatalf("extra field not read: %q", registrant.LinkedIn)
	}
	if registrant.ExtraSource != domain.ExtraStructured {
		t.Fatalf("extra source = %q", registrant.ExtraSource)
	}
}

func TestNormalizeExtraAsJSONString(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_101",
			"notes": {"email": "b@example.com", "extra": "{\"company\": \"Example Co\"}"}
		}}}
	}`)

	registrant, err := Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if registrant.Company != "Example Co" {
		t.Fatalf("company = %q", registrant.Company)
	}
	if registrant.ExtraSource != domain.ExtraParsedFromString {
		t.Fatalf("extra source = %q", registrant.ExtraSource)
	}
}

func TestNormalizeExtraSingleQuoted(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_102",
			"notes": {"email": "c@example.com", "extra": "{'job_title': 'Data Scientist'}"}
		}}}
	}`)

	registrant, err := Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if registrant.JobTitle != "Data Scientist" {
		t.Fatalf("job title = %q", registrant.JobTitle)
	}
	if registrant.ExtraSource != domain.ExtraParsedFromString {
		t.Fatalf("extra source = %q", registrant.ExtraSource)
	}
}

func TestNormalizeExtraGarbageDegradesToEmpty(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_103",
			"notes": {"email": "d@example.com", "extra": "not json at all {{"}
		}}}
	}`)

	registrant, err := Normalize(payload)
	if err != nil {
		t.Fatalf("unparseable extra must not fail the delivery: %v", err)
	}
	if registrant.ExtraSource != domain.ExtraEmpty {
		t.Fatalf("extra source = %q", registrant.ExtraSource)
	}
}

func TestNormalizeNotesOverrideExtra(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {
			"id": "pay_104",
			"notes": {
				"email": "e@example.com",
				"company": "Top Level Co",
				"extra": {"company": "Nested Co"}
			}
		}}}
	}`)

	registrant, err := Normalize(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if registrant.Company != "Top Level Co" {
		t.Fatalf("top-level notes must win, got %q", registrant.Company)
	}
}

func TestNormalizeMissingEmail(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_105", "notes": {"first_name": "No Email"}}}}
	}`)

	if _, err := Normalize(payload); !errors.Is(err, domain.ErrIncompleteData) {
		t.Fatalf("expected ErrIncompleteData, got %v", err)
	}
}

func TestNormalizeMissingPaymentID(t *testing.T) {
	payload := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"notes": {"email": "f@example.com"}}}}
	}`)

	if _, err := Normalize(payload); !errors.Is(err, domain.ErrIncompleteData) {
		t.Fatalf("expected ErrIncompleteData, got %v", err)
	}
}

func TestNormalizeIgnoresOtherEvents(t *testing.T) {
	payload := []byte(`{"event": "payment.failed", "payload": {"payment": {"entity": {"id": "pay_106"}}}}`)

	if _, err := Normalize(payload); !errors.Is(err, domain.ErrEventIgnored) {
		t.Fatalf("expected ErrEventIgnored, got %v", err)
	}
}

func TestNormalizeRejectsInvalidJSON(t *testing.T) {
	if _, err := Normalize([]byte(`{"event": `)); !errors.Is(err, domain.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}
