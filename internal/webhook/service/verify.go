package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/mmml-co/mmml-backend/internal/webhook/domain"
)

// VerifySignature checks the gateway's HMAC-SHA256 over the raw body.
// hmac.Equal keeps the comparison constant-time, so a forger learns nothing
// from how many leading bytes matched.
func VerifySignature(secret string, payload []byte, headers http.Header) error {
	signature := strings.TrimSpace(headers.Get(domain.SignatureHeader))
	if signature == "" {
		return domain.ErrMissingSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return domain.ErrInvalidSignature
	}
	return nil
}
