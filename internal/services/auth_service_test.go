package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/you/notesvc/domain"
	"github.com/you/notesvc/internal/mocks"
)

func newAuthServiceForTest(userRepo *mocks.MockUserRepository, mailer *mocks.MockMailer) domain.AuthService {
	return NewAuthService(userRepo, mocks.NewMockOTPHasher(), mocks.NewMockTokenService(), mailer, 10*time.Minute)
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestAuthServiceImpl_RequestOTP_Signup(t *testing.T) {
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		req           domain.OTPIssueRequest
		setupRepo     func(*mocks.MockUserRepository, *recorder)
		expectedError error
		wantUpsert    bool
		wantMail      bool
	}{
		{
			name: "new email creates pending user and sends mail",
			req:  domain.OTPIssueRequest{Email: "new@example.com", Name: "Ann", DateOfBirth: &dob},
			setupRepo: func(repo *mocks.MockUserRepository, rec *recorder) {
				repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return nil, domain.ErrUserNotFound
				}
			},
			expectedError: nil,
			wantUpsert:    true,
			wantMail:      true,
		},
		{
			name: "missing name",
			req:  domain.OTPIssueRequest{Email: "new@example.com", DateOfBirth: &dob},
			setupRepo: func(repo *mocks.MockUserRepository, rec *recorder) {
			},
			expectedError: domain.ErrMissingField,
		},
		{
			name: "missing date of birth",
			req:  domain.OTPIssueRequest{Email: "new@example.com", Name: "Ann"},
			setupRepo: func(repo *mocks.MockUserRepository, rec *recorder) {
			},
			expectedError: domain.ErrMissingField,
		},
		{
			name: "verified account already holds the email",
			req:  domain.OTPIssueRequest{Email: "taken@example.com", Name: "Ann", DateOfBirth: &dob},
			setupRepo: func(repo *mocks.MockUserRepository, rec *recorder) {
				repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return &domain.User{ID: 7, Email: email}, nil
				}
			},
			expectedError: domain.ErrUserAlreadyExists,
		},
		{
			name: "unverified account allows re-issue",
			req:  domain.OTPIssueRequest{Email: "pending@example.com", Name: "Ann", DateOfBirth: &dob},
			setupRepo: func(repo *mocks.MockUserRepository, rec *recorder) {
				repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return &domain.User{ID: 7, Email: email, OTPHash: "old-hash"}, nil
				}
			},
			expectedError: nil,
			wantUpsert:    true,
			wantMail:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository()
			mailer := mocks.NewMockMailer()
			rec := &recorder{}
			repo.UpsertWithOTPFunc = func(ctx context.Context, user *domain.User) error {
				rec.upserted = user
				return nil
			}
			tt.setupRepo(repo, rec)

			svc := newAuthServiceForTest(repo, mailer)
			err := svc.RequestOTP(context.Background(), tt.req)

			if !errors.Is(err, tt.expectedError) && err != tt.expectedError {
				t.Fatalf("RequestOTP() error = %v, want %v", err, tt.expectedError)
			}

			if tt.wantUpsert {
				if rec.upserted == nil {
					t.Fatal("expected an upsert")
				}
				if !rec.upserted.HasPendingOTP() {
					t.Error("upserted user should carry an OTP hash")
				}
				if rec.upserted.OTPExpiresAt == nil || time.Until(*rec.upserted.OTPExpiresAt) > 10*time.Minute {
					t.Error("OTP expiry should be at most 10 minutes out")
				}
				if rec.upserted.Role != "user" {
					t.Errorf("Role = %q, want user", rec.upserted.Role)
				}
			} else if rec.upserted != nil {
				t.Error("no upsert expected")
			}

			if tt.wantMail != (len(mailer.Sent) == 1) {
				t.Errorf("sent mails = %d, wantMail = %v", len(mailer.Sent), tt.wantMail)
			}
		})
	}
}

type recorder struct {
	upserted *domain.User
}

func TestAuthServiceImpl_RequestOTP_Signin(t *testing.T) {
	t.Run("unknown email creates nothing", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		created := false
		repo.UpsertWithOTPFunc = func(ctx context.Context, user *domain.User) error {
			created = true
			return nil
		}
		repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
			created = true
			return nil
		}
		mailer := mocks.NewMockMailer()
		svc := newAuthServiceForTest(repo, mailer)

		err := svc.RequestOTP(context.Background(), domain.OTPIssueRequest{Email: "ghost@example.com", Signin: true})
		if err != domain.ErrUnknownAccount {
			t.Fatalf("RequestOTP() error = %v, want ErrUnknownAccount", err)
		}
		if created {
			t.Error("signin for an unknown email must not create a record")
		}
		if len(mailer.Sent) != 0 {
			t.Error("no mail should be sent for an unknown account")
		}
	})

	t.Run("known email updates only OTP fields", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: 3, Name: "Ann", Email: email}, nil
		}
		var gotID uint
		var gotHash string
		repo.SetOTPFunc = func(ctx context.Context, userID uint, hash string, expiresAt time.Time) error {
			gotID, gotHash = userID, hash
			return nil
		}
		mailer := mocks.NewMockMailer()
		svc := newAuthServiceForTest(repo, mailer)

		err := svc.RequestOTP(context.Background(), domain.OTPIssueRequest{Email: "ann@example.com", Signin: true})
		if err != nil {
			t.Fatalf("RequestOTP() error = %v", err)
		}
		if gotID != 3 {
			t.Errorf("SetOTP userID = %d, want 3", gotID)
		}
		if gotHash == "" {
			t.Error("SetOTP should receive a hash")
		}
		if len(mailer.Sent) != 1 {
			t.Fatalf("sent mails = %d, want 1", len(mailer.Sent))
		}
	})

	t.Run("mail failure does not fail the request", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: 3, Email: email}, nil
		}
		mailer := mocks.NewMockMailer()
		mailer.SendEmailFunc = func(to, subject, body string) error {
			return errors.New("smtp down")
		}
		svc := newAuthServiceForTest(repo, mailer)

		err := svc.RequestOTP(context.Background(), domain.OTPIssueRequest{Email: "ann@example.com", Signin: true})
		if err != nil {
			t.Fatalf("RequestOTP() error = %v, delivery is best effort", err)
		}
	})
}

func TestAuthServiceImpl_RequestOTP_MailNeverContainsHash(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	var storedHash string
	repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return &domain.User{ID: 3, Email: email}, nil
	}
	repo.SetOTPFunc = func(ctx context.Context, userID uint, hash string, expiresAt time.Time) error {
		storedHash = hash
		return nil
	}
	mailer := mocks.NewMockMailer()
	svc := newAuthServiceForTest(repo, mailer)

	if err := svc.RequestOTP(context.Background(), domain.OTPIssueRequest{Email: "a@example.com", Signin: true}); err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}

	code := extractCode(t, mailer.Sent[0].Body)
	if storedHash == code {
		t.Error("stored hash must differ from the plaintext code")
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 100000 || n > 999999 {
		t.Errorf("code %q outside [100000, 999999]", code)
	}
}

func extractCode(t *testing.T, body string) string {
	t.Helper()
	m := regexp.MustCompile(`\b(\d{6})\b`).FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no 6-digit code in mail body %q", body)
	}
	return m[1]
}

func TestAuthServiceImpl_VerifyOTP(t *testing.T) {
	tests := []struct {
		name          string
		user          *domain.User
		findErr       error
		code          string
		expectedError error
	}{
		{
			name:          "unknown email",
			findErr:       domain.ErrUserNotFound,
			code:          "123456",
			expectedError: domain.ErrOTPNotPending,
		},
		{
			name:          "no pending otp",
			user:          &domain.User{ID: 1, Email: "a@example.com"},
			code:          "123456",
			expectedError: domain.ErrOTPNotPending,
		},
		{
			name: "expired otp with correct code",
			user: &domain.User{
				ID: 1, Email: "a@example.com",
				OTPHash:      "hashed:123456",
				OTPExpiresAt: ptrTime(time.Now().Add(-time.Minute)),
			},
			code:          "123456",
			expectedError: domain.ErrOTPExpired,
		},
		{
			name: "wrong code",
			user: &domain.User{
				ID: 1, Email: "a@example.com",
				OTPHash:      "hashed:123456",
				OTPExpiresAt: ptrTime(time.Now().Add(5 * time.Minute)),
			},
			code:          "654321",
			expectedError: domain.ErrOTPMismatch,
		},
		{
			name: "correct code",
			user: &domain.User{
				ID: 1, Name: "Ann", Email: "a@example.com", Role: "user",
				OTPHash:      "hashed:123456",
				OTPExpiresAt: ptrTime(time.Now().Add(5 * time.Minute)),
			},
			code:          "123456",
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockUserRepository()
			repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
				if tt.findErr != nil {
					return nil, tt.findErr
				}
				return tt.user, nil
			}
			cleared := false
			repo.ClearOTPFunc = func(ctx context.Context, userID uint) error {
				cleared = true
				return nil
			}
			svc := newAuthServiceForTest(repo, mocks.NewMockMailer())

			result, err := svc.VerifyOTP(context.Background(), "a@example.com", tt.code, false)
			if err != tt.expectedError {
				t.Fatalf("VerifyOTP() error = %v, want %v", err, tt.expectedError)
			}

			if tt.expectedError != nil {
				if cleared {
					t.Error("failed verification must not clear the OTP")
				}
				return
			}

			if !cleared {
				t.Error("successful verification must clear the OTP")
			}
			if result.Token == "" {
				t.Error("expected a session token")
			}
			if result.User.HasPendingOTP() {
				t.Error("returned user should have no pending OTP")
			}
		})
	}
}

func TestAuthServiceImpl_VerifyOTP_SingleUse(t *testing.T) {
	// Stateful mock: clearing the OTP is visible to the next lookup.
	stored := &domain.User{
		ID: 1, Email: "a@example.com", Role: "user",
		OTPHash:      "hashed:123456",
		OTPExpiresAt: ptrTime(time.Now().Add(5 * time.Minute)),
	}
	repo := mocks.NewMockUserRepository()
	repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		snapshot := *stored
		return &snapshot, nil
	}
	repo.ClearOTPFunc = func(ctx context.Context, userID uint) error {
		stored.OTPHash = ""
		stored.OTPExpiresAt = nil
		return nil
	}
	svc := newAuthServiceForTest(repo, mocks.NewMockMailer())
	ctx := context.Background()

	if _, err := svc.VerifyOTP(ctx, "a@example.com", "123456", false); err != nil {
		t.Fatalf("first VerifyOTP() error = %v", err)
	}
	if _, err := svc.VerifyOTP(ctx, "a@example.com", "123456", false); err != domain.ErrOTPNotPending {
		t.Fatalf("second VerifyOTP() error = %v, want ErrOTPNotPending", err)
	}
}

func TestAuthServiceImpl_VerifyOTP_KeepLoggedIn(t *testing.T) {
	repo := mocks.NewMockUserRepository()
	repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return &domain.User{
			ID: 1, Email: email, Role: "user",
			OTPHash:      "hashed:123456",
			OTPExpiresAt: ptrTime(time.Now().Add(5 * time.Minute)),
		}, nil
	}

	var gotKeep bool
	tokenSvc := mocks.NewMockTokenService()
	tokenSvc.GenerateSessionTokenFunc = func(userID uint, role string, keepLoggedIn bool) (string, int64, error) {
		gotKeep = keepLoggedIn
		return "tok", 3600, nil
	}
	svc := NewAuthService(repo, mocks.NewMockOTPHasher(), tokenSvc, mocks.NewMockMailer(), 10*time.Minute)

	if _, err := svc.VerifyOTP(context.Background(), "a@example.com", "123456", true); err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if !gotKeep {
		t.Error("keepLoggedIn flag should reach the token service")
	}
}

func TestAuthServiceImpl_FederatedLogin(t *testing.T) {
	t.Run("existing google user is reused", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		repo.FindByGoogleIDFunc = func(ctx context.Context, googleID string) (*domain.User, error) {
			return &domain.User{ID: 9, Name: "Bob", Email: "bob@example.com", GoogleID: googleID, Role: "user"}, nil
		}
		created := false
		repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
			created = true
			return nil
		}
		svc := newAuthServiceForTest(repo, mocks.NewMockMailer())

		result, err := svc.FederatedLogin(context.Background(), &domain.ExternalProfile{Subject: "g-9", Name: "Bob", Email: "bob@example.com"})
		if err != nil {
			t.Fatalf("FederatedLogin() error = %v", err)
		}
		if created {
			t.Error("existing user must not be recreated")
		}
		if result.User.ID != 9 {
			t.Errorf("User.ID = %d, want 9", result.User.ID)
		}
		if result.Token == "" {
			t.Error("expected a session token")
		}
	})

	t.Run("first sighting creates a user without date of birth", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		var createdUser *domain.User
		repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
			user.ID = 10
			createdUser = user
			return nil
		}
		svc := newAuthServiceForTest(repo, mocks.NewMockMailer())

		result, err := svc.FederatedLogin(context.Background(), &domain.ExternalProfile{Subject: "g-10", Name: "New", Email: "new@example.com"})
		if err != nil {
			t.Fatalf("FederatedLogin() error = %v", err)
		}
		if createdUser == nil {
			t.Fatal("expected a user to be created")
		}
		if createdUser.GoogleID != "g-10" {
			t.Errorf("GoogleID = %q, want g-10", createdUser.GoogleID)
		}
		if createdUser.DateOfBirth != nil {
			t.Error("federated signup must not set a date of birth")
		}
		if createdUser.HasPendingOTP() {
			t.Error("federated signup must not set OTP fields")
		}
		if result.User.ID != 10 {
			t.Errorf("User.ID = %d, want 10", result.User.ID)
		}
	})
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("len(code) = %d, want 6", len(code))
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d outside [100000, 999999]", n)
		}
	}
}
