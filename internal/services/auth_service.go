package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/you/notesvc/domain"
)

const defaultRole = "user"

// AuthServiceImpl implements domain.AuthService: passcode issuance and
// verification for the email path, and find-or-create for the Google path.
type AuthServiceImpl struct {
	userRepo domain.UserRepository
	hasher   domain.OTPHasher
	tokenSvc domain.TokenService
	mailer   domain.Mailer
	otpTTL   time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.OTPHasher,
	tokenSvc domain.TokenService,
	mailer domain.Mailer,
	otpTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hasher:   hasher,
		tokenSvc: tokenSvc,
		mailer:   mailer,
		otpTTL:   otpTTL,
	}
}

// RequestOTP implements domain.AuthService. The plaintext code exists
// only for the duration of this call; the stored record carries the
// bcrypt hash and an absolute expiry.
func (s *AuthServiceImpl) RequestOTP(ctx context.Context, req domain.OTPIssueRequest) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate passcode: %w", err)
	}

	hash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash passcode: %w", err)
	}
	expiresAt := time.Now().Add(s.otpTTL)

	if req.Signin {
		user, err := s.userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrUnknownAccount
			}
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if err := s.userRepo.SetOTP(ctx, user.ID, hash, expiresAt); err != nil {
			return fmt.Errorf("failed to store passcode: %w", err)
		}
	} else {
		if req.Name == "" || req.DateOfBirth == nil {
			return domain.ErrMissingField
		}

		existing, err := s.userRepo.FindByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("failed to look up user: %w", err)
		}
		if existing != nil && !existing.HasPendingOTP() {
			return domain.ErrUserAlreadyExists
		}

		user := &domain.User{
			Name:         req.Name,
			Email:        req.Email,
			DateOfBirth:  req.DateOfBirth,
			Role:         defaultRole,
			OTPHash:      hash,
			OTPExpiresAt: &expiresAt,
		}
		if err := s.userRepo.UpsertWithOTP(ctx, user); err != nil {
			return fmt.Errorf("failed to store passcode: %w", err)
		}
	}

	// Delivery is best effort: the passcode is already persisted, so a
	// mail failure is logged and the request still succeeds.
	subject, body := composeOTPMail(code, s.otpTTL, req.Signin)
	if err := s.mailer.SendEmail(req.Email, subject, body); err != nil {
		log.Printf("OTP_MAIL_FAILED: email=%s error=%v", req.Email, err)
	}

	return nil
}

// VerifyOTP implements domain.AuthService. A verified code is cleared
// before the token is minted, so it can never be replayed.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, email, code string, keepLoggedIn bool) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrOTPNotPending
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.HasPendingOTP() {
		return nil, domain.ErrOTPNotPending
	}

	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return nil, domain.ErrOTPExpired
	}

	if !s.hasher.Verify(user.OTPHash, code) {
		return nil, domain.ErrOTPMismatch
	}

	if err := s.userRepo.ClearOTP(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear passcode: %w", err)
	}
	user.OTPHash = ""
	user.OTPExpiresAt = nil

	role := user.Role
	if role == "" {
		role = defaultRole
	}
	token, expiresIn, err := s.tokenSvc.GenerateSessionToken(user.ID, role, keepLoggedIn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &domain.AuthResult{User: user, Token: token, ExpiresIn: expiresIn}, nil
}

// FederatedLogin implements domain.AuthService. The profile has already
// been verified by the identity provider; no date of birth is collected
// on this path.
func (s *AuthServiceImpl) FederatedLogin(ctx context.Context, profile *domain.ExternalProfile) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByGoogleID(ctx, profile.Subject)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		user = &domain.User{
			Name:     profile.Name,
			Email:    profile.Email,
			GoogleID: profile.Subject,
			Role:     defaultRole,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	role := user.Role
	if role == "" {
		role = defaultRole
	}
	token, expiresIn, err := s.tokenSvc.GenerateSessionToken(user.ID, role, false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return &domain.AuthResult{User: user, Token: token, ExpiresIn: expiresIn}, nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func composeOTPMail(code string, ttl time.Duration, signin bool) (subject, body string) {
	minutes := int(ttl.Minutes())
	if signin {
		subject = "Your sign-in code for Note Taking App"
		body = fmt.Sprintf("Your sign-in code is: %s. It expires in %d minutes.", code, minutes)
		return
	}
	subject = "Your OTP for Note Taking App"
	body = fmt.Sprintf("Your verification code is: %s. It expires in %d minutes.", code, minutes)
	return
}
