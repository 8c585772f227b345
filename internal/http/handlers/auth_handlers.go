package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/notesvc/domain"
	"github.com/you/notesvc/internal/http/middleware"
)

// AuthHandlers handles the email OTP authentication endpoints.
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RequestOTPRequest represents the request-otp body. Name and dateOfBirth
// are required for signup intent only; dateOfBirth is YYYY-MM-DD.
type RequestOTPRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	IsSignin    bool   `json:"isSignin"`
}

// VerifyOTPRequest represents the verify-otp body
type VerifyOTPRequest struct {
	Email        string `json:"email" binding:"required,email"`
	OTP          string `json:"otp" binding:"required"`
	KeepLoggedIn bool   `json:"keepLoggedIn"`
}

// RequestOTP handles POST /api/auth/request-otp
func (h *AuthHandlers) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A valid email is required"})
		return
	}

	issue := domain.OTPIssueRequest{
		Email:  req.Email,
		Name:   req.Name,
		Signin: req.IsSignin,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Date of birth must be in YYYY-MM-DD format"})
			return
		}
		issue.DateOfBirth = &dob
	}

	if err := h.authSvc.RequestOTP(c.Request.Context(), issue); err != nil {
		switch err {
		case domain.ErrMissingField:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email and date of birth are required"})
		case domain.ErrUnknownAccount:
			c.JSON(http.StatusBadRequest, gin.H{"message": "No account found with this email. Please sign up."})
		case domain.ErrUserAlreadyExists:
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists. Please log in."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email."})
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required"})
		return
	}

	result, err := h.authSvc.VerifyOTP(c.Request.Context(), req.Email, req.OTP, req.KeepLoggedIn)
	if err != nil {
		switch err {
		case domain.ErrOTPNotPending:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request. Please sign up first."})
		case domain.ErrOTPExpired:
			c.JSON(http.StatusBadRequest, gin.H{"message": "OTP has expired. Please request a new one."})
		case domain.ErrOTPMismatch:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid OTP."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"token":   result.Token,
		"user":    result.User.Profile(),
	})
}

// Me handles GET /api/auth/me (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, user not found"})
		return
	}

	c.JSON(http.StatusOK, user.Profile())
}
