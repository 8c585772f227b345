package mocks

import (
	"context"

	"github.com/you/notesvc/domain"
)

// MockOTPHasher implements domain.OTPHasher for testing. The default
// behavior "hashes" by prefixing, which keeps mismatch detection honest
// without paying for bcrypt in every test.
type MockOTPHasher struct {
	HashFunc   func(code string) (string, error)
	VerifyFunc func(hash, code string) bool
}

func NewMockOTPHasher() *MockOTPHasher {
	return &MockOTPHasher{}
}

func (m *MockOTPHasher) Hash(code string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(code)
	}
	return "hashed:" + code, nil
}

func (m *MockOTPHasher) Verify(hash, code string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hash, code)
	}
	return hash == "hashed:"+code
}

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateSessionTokenFunc func(userID uint, role string, keepLoggedIn bool) (string, int64, error)
	ValidateTokenFunc        func(token string) (*domain.TokenClaims, error)
}

func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) GenerateSessionToken(userID uint, role string, keepLoggedIn bool) (string, int64, error) {
	if m.GenerateSessionTokenFunc != nil {
		return m.GenerateSessionTokenFunc(userID, role, keepLoggedIn)
	}
	return "test-token", 3600, nil
}

func (m *MockTokenService) ValidateToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

// MockMailer implements domain.Mailer for testing
type MockMailer struct {
	SendEmailFunc func(to, subject, body string) error
	Sent          []SentMail
}

// SentMail records a delivered message for assertions
type SentMail struct {
	To      string
	Subject string
	Body    string
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendEmail(to, subject, body string) error {
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, Body: body})
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	return nil
}

// MockStateRepository implements domain.StateRepository for testing
type MockStateRepository struct {
	CreateFunc  func(ctx context.Context, nonce string) error
	ConsumeFunc func(ctx context.Context, nonce string) error
}

func NewMockStateRepository() *MockStateRepository {
	return &MockStateRepository{}
}

func (m *MockStateRepository) Create(ctx context.Context, nonce string) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, nonce)
	}
	return nil
}

func (m *MockStateRepository) Consume(ctx context.Context, nonce string) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, nonce)
	}
	return nil
}

// MockIdentityProvider implements domain.IdentityProvider for testing
type MockIdentityProvider struct {
	AuthCodeURLFunc func(state string) string
	ExchangeFunc    func(ctx context.Context, code string) (*domain.ExternalProfile, error)
}

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{}
}

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state)
	}
	return "https://accounts.example.com/consent?state=" + state
}

func (m *MockIdentityProvider) Exchange(ctx context.Context, code string) (*domain.ExternalProfile, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return &domain.ExternalProfile{Subject: "sub-1", Name: "Test User", Email: "test@example.com"}, nil
}

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RequestOTPFunc     func(ctx context.Context, req domain.OTPIssueRequest) error
	VerifyOTPFunc      func(ctx context.Context, email, code string, keepLoggedIn bool) (*domain.AuthResult, error)
	FederatedLoginFunc func(ctx context.Context, profile *domain.ExternalProfile) (*domain.AuthResult, error)
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) RequestOTP(ctx context.Context, req domain.OTPIssueRequest) error {
	if m.RequestOTPFunc != nil {
		return m.RequestOTPFunc(ctx, req)
	}
	return nil
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string, keepLoggedIn bool) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code, keepLoggedIn)
	}
	return nil, domain.ErrOTPNotPending
}

func (m *MockAuthService) FederatedLogin(ctx context.Context, profile *domain.ExternalProfile) (*domain.AuthResult, error) {
	if m.FederatedLoginFunc != nil {
		return m.FederatedLoginFunc(ctx, profile)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// MockNoteService implements domain.NoteService for testing
type MockNoteService struct {
	ListFunc   func(ctx context.Context, ownerID uint) ([]domain.Note, error)
	CreateFunc func(ctx context.Context, ownerID uint, title, content string) (*domain.Note, error)
	DeleteFunc func(ctx context.Context, ownerID, noteID uint) error
}

func NewMockNoteService() *MockNoteService {
	return &MockNoteService{}
}

func (m *MockNoteService) List(ctx context.Context, ownerID uint) ([]domain.Note, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID)
	}
	return []domain.Note{}, nil
}

func (m *MockNoteService) Create(ctx context.Context, ownerID uint, title, content string) (*domain.Note, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, title, content)
	}
	return &domain.Note{ID: 1, UserID: ownerID, Title: title, Content: content}, nil
}

func (m *MockNoteService) Delete(ctx context.Context, ownerID, noteID uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, noteID)
	}
	return nil
}
