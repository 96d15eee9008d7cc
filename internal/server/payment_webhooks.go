package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	webhookdomain "github.com/mmml-co/mmml-backend/internal/webhook/domain"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// PaymentWebhook receives captured-payment notifications from the gateway.
// Only signature and parse failures answer 400; everything else is
// acknowledged with 200 so the gateway stops retrying deliveries whose
// outcome will never change.
func (s *Server) PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"detail": "unreadable body",
		})
		return
	}

	result, err := s.webhookSvc.Process(c.Request.Context(), payload, c.Request.Header)
	if err != nil {
		detail := "Invalid signature"
		if err == webhookdomain.ErrInvalidPayload {
			detail = "Invalid payload"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"detail": detail,
		})
		return
	}

	status := "ignored"
	if result.Outcome == webhookdomain.OutcomeApplied {
		status = "success"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"detail": result.Detail,
	})
}
