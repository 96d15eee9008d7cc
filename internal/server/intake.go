package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	intakedomain "github.com/mmml-co/mmml-backend/internal/intake/domain"
)

func (s *Server) CreateUser(c *gin.Context) {
	var req intakedomain.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.CreateUser(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id})
}

func (s *Server) CreateEventRegistration(c *gin.Context) {
	var req intakedomain.EventRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.RegisterEvent(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registration_id": id})
}

func (s *Server) CreateWaitlistRegistration(c *gin.Context) {
	var req intakedomain.WaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.JoinWaitlist(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"waitlist_id": id})
}

func (s *Server) CreateContactMessage(c *gin.Context) {
	var req intakedomain.ContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.SubmitContactMessage(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

func (s *Server) CreateSpeakerApplication(c *gin.Context) {
	var req intakedomain.SpeakerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.ApplySpeaker(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application_id": id})
}

func (s *Server) CreateSponsorshipInquiry(c *gin.Context) {
	var req intakedomain.SponsorshipInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.InquireSponsorship(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiry_id": id})
}

func (s *Server) CreatePartnershipProposal(c *gin.Context) {
	var req intakedomain.PartnershipProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.ProposePartnership(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal_id": id})
}

func (s *Server) CreateVolunteerApplication(c *gin.Context) {
	var req intakedomain.VolunteerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	id, err := s.intakeSvc.ApplyVolunteer(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application_id": id})
}
