package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		token, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		other, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, other, "tokens should be unique")
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
	require.Panics(t, func() { MustGenerateToken(0) })
}

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("482910")
	fp1b := FingerprintToken("482910")
	fp2 := FingerprintToken("000000")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43, "SHA-256 base64url should be 43 chars")

	require.True(t, EqualFingerprint("482910", fp1a))
	require.False(t, EqualFingerprint("000000", fp1a))
	require.False(t, EqualFingerprint("", fp1a))
}
