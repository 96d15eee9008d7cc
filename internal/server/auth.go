package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/mmml-co/mmml-backend/internal/auth/domain"
)

const sessionContextKey = "auth_session"

type signupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

func (s *Server) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	account, err := s.authsvc.Signup(c.Request.Context(), authdomain.SignupRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_id": account.ID.String(),
		"email":      account.Email,
	})
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, result.Session)
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if ok {
		_ = s.authsvc.Logout(c.Request.Context(), token)
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// WebAuthRequired guards routes behind a valid session cookie.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, err)
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

func (s *Server) Me(c *gin.Context) {
	value, exists := c.Get(sessionContextKey)
	session, ok := value.(*authdomain.Session)
	if !exists || !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	account, err := s.authsvc.Account(c.Request.Context(), session.AccountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_id":   account.ID.String(),
		"email":        account.Email,
		"display_name": account.DisplayName,
		"provider":     account.Provider,
		"expires_at":   session.ExpiresAt,
	})
}

func (s *Server) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	value, exists := c.Get(sessionContextKey)
	session, ok := value.(*authdomain.Session)
	if !exists || !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.authsvc.ChangePassword(c.Request.Context(), session.AccountID, req.NewPassword); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
