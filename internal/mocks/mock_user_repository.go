package mocks

import (
	"context"
	"time"

	"github.com/you/notesvc/domain"
)

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *domain.User) error
	FindByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)
	FindByGoogleIDFunc func(ctx context.Context, googleID string) (*domain.User, error)
	FindByIDFunc       func(ctx context.Context, id uint) (*domain.User, error)
	UpsertWithOTPFunc  func(ctx context.Context, user *domain.User) error
	SetOTPFunc         func(ctx context.Context, userID uint, hash string, expiresAt time.Time) error
	ClearOTPFunc       func(ctx context.Context, userID uint) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	if m.FindByGoogleIDFunc != nil {
		return m.FindByGoogleIDFunc(ctx, googleID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) UpsertWithOTP(ctx context.Context, user *domain.User) error {
	if m.UpsertWithOTPFunc != nil {
		return m.UpsertWithOTPFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) SetOTP(ctx context.Context, userID uint, hash string, expiresAt time.Time) error {
	if m.SetOTPFunc != nil {
		return m.SetOTPFunc(ctx, userID, hash, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) ClearOTP(ctx context.Context, userID uint) error {
	if m.ClearOTPFunc != nil {
		return m.ClearOTPFunc(ctx, userID)
	}
	return nil
}
