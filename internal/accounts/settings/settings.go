// Package settings provides the verification code tunables. Values are
// resolved on every call so a changed environment takes effect without a
// restart.
package settings

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultCodeLength        = 6
	DefaultCodeCharacters    = "0123456789"
	DefaultMaxAttempts       = 5
	DefaultExpirationMinutes = 7
)

// Environment variables read by Env.
const (
	EnvCodeLength        = "VERIFICATION_CODE_LENGTH"
	EnvCodeCharacters    = "VERIFICATION_CODE_CHARACTERS"
	EnvMaxAttempts       = "VERIFICATION_CODE_MAX_ATTEMPTS"
	EnvExpirationMinutes = "VERIFICATION_CODE_EXPIRATION_MINUTES"
)

// VerificationCodes supplies the code generation and validation limits.
// Implementations never fail; a missing or bad value yields the default.
type VerificationCodes interface {
	CodeLength() int
	CodeCharacters() string
	MaxAttempts() int
	ExpirationMinutes() int
}

// Env reads the process environment on each call.
type Env struct{}

var _ VerificationCodes = Env{}

func (Env) CodeLength() int {
	return positiveInt(os.Getenv(EnvCodeLength), DefaultCodeLength)
}

func (Env) CodeCharacters() string {
	if v := os.Getenv(EnvCodeCharacters); v != "" {
		return v
	}
	return DefaultCodeCharacters
}

func (Env) MaxAttempts() int {
	return positiveInt(os.Getenv(EnvMaxAttempts), DefaultMaxAttempts)
}

func (Env) ExpirationMinutes() int {
	return positiveInt(os.Getenv(EnvExpirationMinutes), DefaultExpirationMinutes)
}

// Static holds fixed values. Zero fields fall back to the defaults.
type Static struct {
	Length     int
	Characters string
	Attempts   int
	Minutes    int
}

var _ VerificationCodes = Static{}

func (s Static) CodeLength() int {
	return orDefault(s.Length, DefaultCodeLength)
}

func (s Static) CodeCharacters() string {
	if s.Characters == "" {
		return DefaultCodeCharacters
	}
	return s.Characters
}

func (s Static) MaxAttempts() int {
	return orDefault(s.Attempts, DefaultMaxAttempts)
}

func (s Static) ExpirationMinutes() int {
	return orDefault(s.Minutes, DefaultExpirationMinutes)
}

// ExpirationFrom returns the instant a code issued at now stops being valid.
func ExpirationFrom(now time.Time, minutes int) time.Time {
	return now.Add(time.Duration(minutes) * time.Minute)
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
