package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

var ErrEmptyAlphabet = errors.New("cryptox: alphabet must not be empty")

// RandomString draws length characters from alphabet, each picked
// independently and uniformly from r (repeats allowed). A nil r means
// crypto/rand.Reader; anything else should only be used by tests.
func RandomString(r io.Reader, length int, alphabet string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("cryptox: length must be positive, got %d", length)
	}

	chars := []rune(alphabet)
	if len(chars) == 0 {
		return "", ErrEmptyAlphabet
	}

	if r == nil {
		r = rand.Reader
	}

	bound := big.NewInt(int64(len(chars)))
	out := make([]rune, length)
	for i := range out {
		n, err := rand.Int(r, bound)
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to draw random character: %w", err)
		}
		out[i] = chars[n.Int64()]
	}
	return string(out), nil
}

// GeneratePassword returns a random 12 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	return RandomString(nil, 12, charset)
}
