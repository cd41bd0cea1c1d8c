package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

// CodeSender delivers a freshly issued code to the user.
type CodeSender interface {
	SendCode(ctx context.Context, u domain.User, code domain.VerificationCode) error
}

// LogCodeSender records the hand-off in the log instead of delivering it.
// The plaintext code is only logged when Reveal is set.
type LogCodeSender struct {
	Logger *slog.Logger
	Reveal bool
}

func (s LogCodeSender) SendCode(ctx context.Context, u domain.User, code domain.VerificationCode) error {
	attrs := []any{
		slog.String("user_id", u.ID),
		slog.Time("expires_at", code.ExpiresAt),
	}
	if u.Phone != nil {
		attrs = append(attrs, slog.String("phone", maskPhone(*u.Phone)))
	}
	if s.Reveal {
		attrs = append(attrs, slog.String("code", code.Code))
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "verification code handed off", attrs...)
	return nil
}

// maskPhone keeps the last three digits.
func maskPhone(p string) string {
	if len(p) <= 3 {
		return p
	}
	masked := make([]byte, len(p))
	for i := range p {
		if i < len(p)-3 && p[i] != '+' {
			masked[i] = '*'
		} else {
			masked[i] = p[i]
		}
	}
	return string(masked)
}
