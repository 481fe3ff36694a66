package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RequestOTPRequest struct {
	MobileNumber string `json:"mobileNumber" binding:"required"`
}

func (s *Server) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.Auth.RequestOTP(c.Request.Context(), req.MobileNumber); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "OTP sent successfully")
}

type VerifyOTPRequest struct {
	MobileNumber string `json:"mobileNumber" binding:"required"`
	OTP          string `json:"otp" binding:"required"`
	FullName     string `json:"fullName"`
	ReferredBy   string `json:"referredBy"`
}

func (s *Server) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := s.Auth.VerifyOTP(c.Request.Context(), req.MobileNumber, req.OTP, req.FullName, req.ReferredBy)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result, "Login successful")
}

func (s *Server) GetProfile(c *gin.Context) {
	user, err := s.Auth.Profile(currentUserId(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Profile fetched")
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := s.Auth.UpdateProfile(currentUserId(c), req.FullName)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Profile updated")
}
