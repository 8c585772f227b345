package domain

import "errors"

// Account errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUnknownAccount    = errors.New("no account exists for this email")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrMissingField      = errors.New("required field missing")
)

// OTP errors
var (
	ErrOTPNotPending = errors.New("no otp pending for this account")
	ErrOTPExpired    = errors.New("otp has expired")
	ErrOTPMismatch   = errors.New("invalid otp code")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// OAuth state errors
var (
	ErrStateNotFound = errors.New("oauth state not found")
)

// Note errors
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrNotOwner     = errors.New("user does not own this note")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized access")
)
