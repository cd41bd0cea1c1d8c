package settings_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/settings"
	"github.com/stretchr/testify/require"
)

func TestEnvDefaults(t *testing.T) {
	t.Setenv(settings.EnvCodeLength, "")
	t.Setenv(settings.EnvCodeCharacters, "")
	t.Setenv(settings.EnvMaxAttempts, "")
	t.Setenv(settings.EnvExpirationMinutes, "")

	var s settings.Env
	require.Equal(t, 6, s.CodeLength())
	require.Equal(t, "0123456789", s.CodeCharacters())
	require.Equal(t, 5, s.MaxAttempts())
	require.Equal(t, 7, s.ExpirationMinutes())
}

func TestEnvReadsEveryCall(t *testing.T) {
	var s settings.Env

	t.Setenv(settings.EnvCodeLength, "8")
	require.Equal(t, 8, s.CodeLength())

	t.Setenv(settings.EnvCodeLength, "4")
	require.Equal(t, 4, s.CodeLength())

	t.Setenv(settings.EnvCodeCharacters, "ABC")
	require.Equal(t, "ABC", s.CodeCharacters())
}

func TestEnvBadValuesFallBack(t *testing.T) {
	var s settings.Env

	tests := []struct {
		name string
		raw  string
	}{
		{"not a number", "seven"},
		{"zero", "0"},
		{"negative", "-2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(settings.EnvMaxAttempts, tc.raw)
			t.Setenv(settings.EnvExpirationMinutes, tc.raw)
			require.Equal(t, settings.DefaultMaxAttempts, s.MaxAttempts())
			require.Equal(t, settings.DefaultExpirationMinutes, s.ExpirationMinutes())
		})
	}
}

func TestStatic(t *testing.T) {
	s := settings.Static{Length: 4, Characters: "AB"}
	require.Equal(t, 4, s.CodeLength())
	require.Equal(t, "AB", s.CodeCharacters())
	require.Equal(t, settings.DefaultMaxAttempts, s.MaxAttempts())
	require.Equal(t, settings.DefaultExpirationMinutes, s.ExpirationMinutes())
}

func TestExpirationFrom(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.Equal(t, now.Add(7*time.Minute), settings.ExpirationFrom(now, 7))
}
