package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SubmissionRateLimit throttles the public form endpoints per client IP.
// With no limiter configured every request passes through.
func (s *Server) SubmissionRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		res := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": "Too many submissions, please try again later",
			})
			return
		}
		c.Next()
	}
}
