package domain

import "time"

// User represents an account. Accounts created through the email OTP path
// carry a name and date of birth; accounts created through Google carry a
// GoogleID and whatever profile claims the provider supplied.
type User struct {
	ID           uint
	Name         string
	Email        string
	DateOfBirth  *time.Time
	GoogleID     string
	Role         string
	OTPHash      string
	OTPExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPendingOTP reports whether an unverified passcode is stored on the
// account. A user without a pending OTP has completed signup.
func (u *User) HasPendingOTP() bool {
	return u.OTPHash != ""
}

// Profile is the public projection of a User returned to clients. OTP
// fields never appear here.
type Profile struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// Profile strips sensitive fields from the user record.
func (u *User) Profile() Profile {
	p := Profile{ID: u.ID, Name: u.Name, Email: u.Email}
	if u.DateOfBirth != nil {
		p.DateOfBirth = u.DateOfBirth.Format("2006-01-02")
	}
	return p
}

// Note is a text note owned by exactly one user.
type Note struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OTPIssueRequest carries the inputs of the request-OTP operation.
// Name and DateOfBirth are only consulted when Signin is false.
type OTPIssueRequest struct {
	Email       string
	Name        string
	DateOfBirth *time.Time
	Signin      bool
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	User      *User
	Token     string
	ExpiresIn int64
}

// ExternalProfile is a verified identity from a federated provider.
type ExternalProfile struct {
	Subject string
	Name    string
	Email   string
}

// TokenClaims represents validated session token claims.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
