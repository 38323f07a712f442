package services

import (
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrPasswordFirstUpper = errors.New("password must start with an uppercase letter")
	ErrPasswordNoLower    = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoNumber   = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial  = errors.New("password must contain at least one special character")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks the address shape only; deliverability is not checked.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// PasswordValidator validates passwords against the account policy
type PasswordValidator struct {
	minLength      int
	requireUpper   bool
	requireLower   bool
	requireNumber  bool
	requireSpecial bool
}

// NewPasswordValidator creates a new password validator with default settings
func NewPasswordValidator() *PasswordValidator {
	return &PasswordValidator{
		minLength:      6,
		requireUpper:   true,
		requireLower:   true,
		requireNumber:  true,
		requireSpecial: true,
	}
}

// ValidatePassword returns the first policy rule the password breaks.
func (pv *PasswordValidator) ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < pv.minLength {
		return ErrPasswordTooShort
	}

	var hasLower, hasNumber, hasSpecial bool
	for i, char := range password {
		if i == 0 && pv.requireUpper && !unicode.IsUpper(char) {
			return ErrPasswordFirstUpper
		}
		switch {
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if pv.requireLower && !hasLower {
		return ErrPasswordNoLower
	}
	if pv.requireNumber && !hasNumber {
		return ErrPasswordNoNumber
	}
	if pv.requireSpecial && !hasSpecial {
		return ErrPasswordNoSpecial
	}
	return nil
}

// IsPasswordStrong checks if a password meets the default policy
func IsPasswordStrong(password string) bool {
	return NewPasswordValidator().ValidatePassword(password) == nil
}
