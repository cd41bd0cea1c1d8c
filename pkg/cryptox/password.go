package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// UnusablePasswordPrefix marks a stored credential that can never match any
// password. Argon2id PHC strings always start with '$' so the two never collide.
const UnusablePasswordPrefix = "!"

var (
	ErrPasswordMismatch  = errors.New("password does not match")
	ErrUnusablePassword  = errors.New("password is unusable")
	ErrInvalidHashFormat = errors.New("invalid hash format")
)

// HashPassword generates a PHC-format Argon2id hash string including salt and parameters.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// UnusablePassword returns a credential marker for accounts created without a
// password. The random suffix keeps two such accounts from sharing a value.
func UnusablePassword() string {
	return UnusablePasswordPrefix + MustGenerateToken(TokenSize256)
}

// IsUsablePassword reports whether encodedHash is a real password hash rather
// than the unusable marker (or empty).
func IsUsablePassword(encodedHash string) bool {
	return encodedHash != "" && !strings.HasPrefix(encodedHash, UnusablePasswordPrefix)
}

// VerifyPassword compares a plaintext password against a PHC-style Argon2id hash.
// An unusable credential never verifies, whatever the password (including "").
func VerifyPassword(password, encodedHash string) error {
	if !IsUsablePassword(encodedHash) {
		return ErrUnusablePassword
	}

	// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: expected 6 parts", ErrInvalidHashFormat)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrInvalidHashFormat)
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", ErrInvalidHashFormat)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: failed to parse parameters: %w", ErrInvalidHashFormat, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: failed to decode salt: %w", ErrInvalidHashFormat, err)
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: failed to decode hash: %w", ErrInvalidHashFormat, err)
	}

	computed := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iters,
		mem,
		par,
		uint32(len(expectedHash)), // #nosec G115 - If this overflows we have bigger problems
	)

	if subtle.ConstantTimeCompare(computed, expectedHash) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
