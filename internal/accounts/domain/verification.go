package domain

import "time"

// VerificationCode is the single live code an account may hold.
type VerificationCode struct {
	ID           string
	UserID       string
	Code         string // plaintext, only set on the value returned by Generate
	CodeHash     string
	ExpiresAt    time.Time
	AttemptsUsed int
	MaxAttempts  int
	ConsumedAt   *time.Time
	CreatedAt    time.Time
}

// Expired reports whether the code is past its expiry at now. A code is still
// valid at exactly ExpiresAt.
func (c VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Locked reports whether every attempt has been spent.
func (c VerificationCode) Locked() bool {
	return c.AttemptsUsed >= c.MaxAttempts
}

// Consumed reports whether the code was already used successfully.
func (c VerificationCode) Consumed() bool {
	return c.ConsumedAt != nil
}

// Remaining is how many failed attempts are left before the code locks.
func (c VerificationCode) Remaining() int {
	return max(c.MaxAttempts-c.AttemptsUsed, 0)
}
