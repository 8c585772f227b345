package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/notesvc/domain"
	"github.com/you/notesvc/internal/mocks"
)

func setupAuthRouter(authSvc domain.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandlers(authSvc)
	r := gin.New()
	r.POST("/api/auth/request-otp", h.RequestOTP)
	r.POST("/api/auth/verify-otp", h.VerifyOTP)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_RequestOTP(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]interface{}
		serviceError   error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "signup ok",
			body:           map[string]interface{}{"email": "new@example.com", "name": "Ann", "dateOfBirth": "2000-01-01"},
			expectedStatus: http.StatusOK,
			expectedBody:   "OTP sent to your email.",
		},
		{
			name:           "missing email",
			body:           map[string]interface{}{"name": "Ann"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "A valid email is required",
		},
		{
			name:           "bad email",
			body:           map[string]interface{}{"email": "not-an-email"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "A valid email is required",
		},
		{
			name:           "bad date of birth format",
			body:           map[string]interface{}{"email": "new@example.com", "name": "Ann", "dateOfBirth": "01/01/2000"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "YYYY-MM-DD",
		},
		{
			name:           "signup without profile fields",
			body:           map[string]interface{}{"email": "new@example.com"},
			serviceError:   domain.ErrMissingField,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Name, email and date of birth are required",
		},
		{
			name:           "signin for unknown account",
			body:           map[string]interface{}{"email": "ghost@example.com", "isSignin": true},
			serviceError:   domain.ErrUnknownAccount,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "No account found with this email. Please sign up.",
		},
		{
			name:           "signup against verified account",
			body:           map[string]interface{}{"email": "taken@example.com", "name": "Ann", "dateOfBirth": "2000-01-01"},
			serviceError:   domain.ErrUserAlreadyExists,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "User already exists. Please log in.",
		},
		{
			name:           "backend failure",
			body:           map[string]interface{}{"email": "new@example.com", "name": "Ann", "dateOfBirth": "2000-01-01"},
			serviceError:   context.DeadlineExceeded,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Error processing request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.RequestOTPFunc = func(ctx context.Context, req domain.OTPIssueRequest) error {
				return tt.serviceError
			}
			r := setupAuthRouter(authSvc)

			w := postJSON(t, r, "/api/auth/request-otp", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestAuthHandlers_RequestOTP_PassesIntent(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	var got domain.OTPIssueRequest
	authSvc.RequestOTPFunc = func(ctx context.Context, req domain.OTPIssueRequest) error {
		got = req
		return nil
	}
	r := setupAuthRouter(authSvc)

	w := postJSON(t, r, "/api/auth/request-otp", map[string]interface{}{
		"email":       "ann@example.com",
		"name":        "Ann",
		"dateOfBirth": "2000-01-01",
		"isSignin":    false,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, "Ann", got.Name)
	assert.False(t, got.Signin)
	require.NotNil(t, got.DateOfBirth)
	assert.Equal(t, "2000-01-01", got.DateOfBirth.Format("2006-01-02"))
}

func TestAuthHandlers_VerifyOTP(t *testing.T) {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	okResult := &domain.AuthResult{
		User:  &domain.User{ID: 1, Name: "Ann", Email: "ann@example.com", DateOfBirth: &dob},
		Token: "signed-token",
	}

	tests := []struct {
		name           string
		body           map[string]interface{}
		result         *domain.AuthResult
		serviceError   error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			body:           map[string]interface{}{"email": "ann@example.com", "otp": "123456"},
			result:         okResult,
			expectedStatus: http.StatusCreated,
			expectedBody:   "signed-token",
		},
		{
			name:           "missing otp",
			body:           map[string]interface{}{"email": "ann@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Email and OTP are required",
		},
		{
			name:           "no pending otp",
			body:           map[string]interface{}{"email": "ann@example.com", "otp": "123456"},
			serviceError:   domain.ErrOTPNotPending,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request. Please sign up first.",
		},
		{
			name:           "expired",
			body:           map[string]interface{}{"email": "ann@example.com", "otp": "123456"},
			serviceError:   domain.ErrOTPExpired,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "OTP has expired. Please request a new one.",
		},
		{
			name:           "mismatch",
			body:           map[string]interface{}{"email": "ann@example.com", "otp": "000000"},
			serviceError:   domain.ErrOTPMismatch,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid OTP.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.VerifyOTPFunc = func(ctx context.Context, email, code string, keepLoggedIn bool) (*domain.AuthResult, error) {
				if tt.serviceError != nil {
					return nil, tt.serviceError
				}
				return tt.result, nil
			}
			r := setupAuthRouter(authSvc)

			w := postJSON(t, r, "/api/auth/verify-otp", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestAuthHandlers_VerifyOTP_UserProjection(t *testing.T) {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	authSvc := mocks.NewMockAuthService()
	authSvc.VerifyOTPFunc = func(ctx context.Context, email, code string, keepLoggedIn bool) (*domain.AuthResult, error) {
		return &domain.AuthResult{
			User: &domain.User{
				ID: 1, Name: "Ann", Email: "ann@example.com", DateOfBirth: &dob,
				OTPHash: "should-never-leak",
			},
			Token: "tok",
		}, nil
	}
	r := setupAuthRouter(authSvc)

	w := postJSON(t, r, "/api/auth/verify-otp", map[string]interface{}{"email": "ann@example.com", "otp": "123456", "keepLoggedIn": true})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "Ann", resp.User["name"])
	assert.Equal(t, "ann@example.com", resp.User["email"])
	assert.Equal(t, "2000-01-01", resp.User["dateOfBirth"])
	assert.NotContains(t, w.Body.String(), "should-never-leak")
}
