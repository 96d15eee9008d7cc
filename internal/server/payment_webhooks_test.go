package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	webhookdomain "github.com/mmml-co/mmml-backend/internal/webhook/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWebhookService struct {
	result *webhookdomain.Result
	err    error
}

func (s *stubWebhookService) Process(ctx context.Context, payload []byte, headers http.Header) (*webhookdomain.Result, error) {
	return s.result, s.err
}

func postWebhook(t *testing.T, svc webhookdomain.Service) (int, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := &Server{webhookSvc: svc}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/event-registration-webhook/",
		bytes.NewReader([]byte(`{}`)))

	srv.PaymentWebhook(c)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestPaymentWebhookAppliedBody(t *testing.T) {
	code, body := postWebhook(t, &stubWebhookService{
		result: &webhookdomain.Result{Outcome: webhookdomain.OutcomeApplied, Detail: "user registered"},
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "user registered", body["detail"])
}

func TestPaymentWebhookIgnoredBody(t *testing.T) {
	code, body := postWebhook(t, &stubWebhookService{
		result: &webhookdomain.Result{Outcome: webhookdomain.OutcomeIgnored, Detail: "payment already processed"},
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ignored", body["status"])
	assert.Equal(t, "payment already processed", body["detail"])
}

func TestPaymentWebhookSoftFailureAcknowledged(t *testing.T) {
	code, body := postWebhook(t, &stubWebhookService{
		result: &webhookdomain.Result{Outcome: webhookdomain.OutcomeFailedSoft, Detail: "DB update failed"},
	})

	assert.Equal(t, http.StatusOK, code, "persistence failures must not trigger gateway retries")
	assert.Equal(t, "ignored", body["status"])
	assert.Equal(t, "DB update failed", body["detail"])
}

func TestPaymentWebhookSignatureFailureBody(t *testing.T) {
	code, body := postWebhook(t, &stubWebhookService{err: webhookdomain.ErrInvalidSignature})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invalid signature", body["detail"])
}

func TestPaymentWebhookParseFailureBody(t *testing.T) {
	code, body := postWebhook(t, &stubWebhookService{err: webhookdomain.ErrInvalidPayload})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Invalid payload", body["detail"])
}
