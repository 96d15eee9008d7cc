package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"testing"

	"github.com/mmml-co/mmml-backend/internal/webhook/domain"
)

func TestVerifySignatureAccepted(t *testing.T) {
	payload := []byte(`{"event":"payment.captured"}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(payload)

	headers := http.Header{}
	headers.Set(domain.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))

	if err := VerifySignature("secret", payload, headers); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	payload := []byte(`{"event":"payment.captured"}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(payload)

	headers := http.Header{}
	headers.Set(domain.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))

	tampered := []byte(`{"event":"payment.captured","amount":0}`)
	if err := VerifySignature("secret", tampered, headers); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	mac := hmac.New(sha256.New, []byte("other-secret"))
	mac.Write(payload)

	headers := http.Header{}
	headers.Set(domain.SignatureHeader, hex.EncodeToString(mac.Sum(nil)))

	if err := VerifySignature("secret", payload, headers); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureMissingHeader(t *testing.T) {
	if err := VerifySignature("secret", []byte(`{}`), http.Header{}); !errors.Is(err, domain.ErrMissingSignature) {
		t.Fatalf("expected ErrMissingSignature, got %v", err)
	}
}
