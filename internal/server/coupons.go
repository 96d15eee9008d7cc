package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	coupondomain "github.com/mmml-co/mmml-backend/internal/coupon/domain"
)

// ApplyCoupon computes the discount for a coupon without consuming usage.
func (s *Server) ApplyCoupon(c *gin.Context) {
	var req coupondomain.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	result, err := s.couponSvc.Apply(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
