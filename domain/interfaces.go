package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	// UpsertWithOTP atomically creates or updates the row for user.Email,
	// writing profile and OTP fields in a single statement.
	UpsertWithOTP(ctx context.Context, user *User) error
	// SetOTP updates only the OTP hash and expiry, leaving profile data alone.
	SetOTP(ctx context.Context, userID uint, hash string, expiresAt time.Time) error
	// ClearOTP blanks the OTP fields after a successful verification.
	ClearOTP(ctx context.Context, userID uint) error
}

// NoteRepository defines note data access operations.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	FindByID(ctx context.Context, id uint) (*Note, error)
	FindByOwner(ctx context.Context, ownerID uint) ([]Note, error)
	Delete(ctx context.Context, id uint) error
}

// StateRepository stores short-lived OAuth state nonces.
type StateRepository interface {
	Create(ctx context.Context, nonce string) error
	// Consume deletes the nonce, returning ErrStateNotFound if it was
	// never issued or already used.
	Consume(ctx context.Context, nonce string) error
}

// AuthService defines the passwordless authentication business logic.
type AuthService interface {
	RequestOTP(ctx context.Context, req OTPIssueRequest) error
	VerifyOTP(ctx context.Context, email, code string, keepLoggedIn bool) (*AuthResult, error)
	FederatedLogin(ctx context.Context, profile *ExternalProfile) (*AuthResult, error)
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// NoteService defines note operations scoped to an owner.
type NoteService interface {
	List(ctx context.Context, ownerID uint) ([]Note, error)
	Create(ctx context.Context, ownerID uint, title, content string) (*Note, error)
	Delete(ctx context.Context, ownerID, noteID uint) error
}

// OTPHasher defines one-way passcode hashing.
type OTPHasher interface {
	Hash(code string) (string, error)
	Verify(hash, code string) bool
}

// TokenService defines session token operations.
type TokenService interface {
	GenerateSessionToken(userID uint, role string, keepLoggedIn bool) (string, int64, error)
	ValidateToken(token string) (*TokenClaims, error)
}

// Mailer defines best-effort email delivery.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// IdentityProvider exchanges an OAuth authorization code for a verified
// external profile.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*ExternalProfile, error)
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the service uses.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
