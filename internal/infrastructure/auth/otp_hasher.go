package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/notesvc/domain"
)

// bcrypt work factor for passcodes; interactive-use cost.
const otpHashCost = 10

// OTPHasherImpl implements domain.OTPHasher
type OTPHasherImpl struct {
	cost int
}

// NewOTPHasher creates a new bcrypt-backed passcode hasher
func NewOTPHasher() domain.OTPHasher {
	return &OTPHasherImpl{cost: otpHashCost}
}

// Hash implements domain.OTPHasher
func (h *OTPHasherImpl) Hash(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.OTPHasher
func (h *OTPHasherImpl) Verify(hash, code string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	return err == nil
}
