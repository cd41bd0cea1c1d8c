package service

import (
	"errors"
	"fmt"
)

// Account errors.
var (
	ErrInvalidEmail         = errors.New("invalid email")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrPasswordRequired     = errors.New("password required")
	ErrInvalidStaffFlag     = errors.New("superuser must have is_staff=true")
	ErrInvalidSuperuserFlag = errors.New("superuser must have is_superuser=true")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrNoPhone              = errors.New("user has no phone number")

	// ErrDuplicate is matched by both duplicate kinds.
	ErrDuplicate      = errors.New("duplicate")
	ErrDuplicateEmail = fmt.Errorf("%w: email already registered", ErrDuplicate)
	ErrDuplicatePhone = fmt.Errorf("%w: phone already registered", ErrDuplicate)
)

// Verification errors.
var (
	ErrCodeNotFound        = errors.New("no verification code issued")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrCodeLocked          = errors.New("verification code locked")
	ErrCodeAlreadyConsumed = errors.New("verification code already used")
	ErrInvalidCode         = errors.New("invalid verification code")
)

// Address errors.
var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrAddressNotFound = errors.New("address not found")
)

// InvalidCodeError is returned for a wrong code that did not exhaust the
// attempts. It matches ErrInvalidCode.
type InvalidCodeError struct {
	Remaining int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("%s: %d attempts remaining", ErrInvalidCode, e.Remaining)
}

func (e *InvalidCodeError) Is(target error) bool { return target == ErrInvalidCode }
