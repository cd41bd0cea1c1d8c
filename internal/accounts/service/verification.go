package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/settings"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// VerificationService issues and checks the one-time codes that prove
// control of a phone number. Each user holds at most one live code.
type VerificationService struct {
	Store    store.Store
	Settings settings.VerificationCodes // defaults to settings.Env
	Sender   CodeSender                 // used by SendPhoneCode
	Clock    func() time.Time           // defaults to time.Now
	Random   io.Reader                  // defaults to crypto/rand
}

func (s *VerificationService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

func (s *VerificationService) settings() settings.VerificationCodes {
	if s.Settings == nil {
		return settings.Env{}
	}
	return s.Settings
}

// Generate issues a fresh code for userID, replacing any previous one. The
// returned value is the only place the plaintext code appears.
func (s *VerificationService) Generate(ctx context.Context, userID string) (domain.VerificationCode, error) {
	log := slogx.FromContext(ctx)
	cfg := s.settings()

	code, err := cryptox.RandomString(s.Random, cfg.CodeLength(), cfg.CodeCharacters())
	if err != nil {
		log.Error("failed to generate verification code", slog.Any("error", err))
		return domain.VerificationCode{}, err
	}

	now := s.now()
	vc := domain.VerificationCode{
		ID:          idx.New().String(),
		UserID:      userID,
		Code:        code,
		CodeHash:    cryptox.FingerprintToken(code),
		ExpiresAt:   settings.ExpirationFrom(now, cfg.ExpirationMinutes()),
		MaxAttempts: cfg.MaxAttempts(),
		CreatedAt:   now,
	}

	if err := s.Store.VerificationCodes().UpsertCode(ctx, vc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.VerificationCode{}, ErrUserNotFound
		}
		log.Error("failed to store verification code", slog.Any("error", err))
		return domain.VerificationCode{}, err
	}

	log.Debug("verification code issued",
		slog.String("user_id", userID),
		slog.Time("expires_at", vc.ExpiresAt),
	)
	return vc, nil
}

// Validate checks submitted against the user's live code. Consumed, expired
// and locked codes are rejected before any comparison. A wrong guess spends
// one attempt and returns *InvalidCodeError; a correct one consumes the code.
func (s *VerificationService) Validate(ctx context.Context, userID, submitted string) (domain.VerificationCode, error) {
	log := slogx.FromContext(ctx)
	codes := s.Store.VerificationCodes()

	c, err := codes.GetCodeByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.VerificationCode{}, ErrCodeNotFound
		}
		return domain.VerificationCode{}, err
	}

	now := s.now()
	if err := gate(c, now); err != nil {
		return c, err
	}

	if !cryptox.EqualFingerprint(submitted, c.CodeHash) {
		used, err := codes.IncrementAttempts(ctx, c.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return s.raceState(ctx, userID, c, now)
			}
			log.Error("failed to record attempt", slog.Any("error", err))
			return c, err
		}
		c.AttemptsUsed = used

		log.Info("verification code mismatch",
			slog.String("user_id", userID),
			slog.Int("attempts_used", used),
		)
		return c, &InvalidCodeError{Remaining: c.Remaining()}
	}

	if err := codes.ConsumeCode(ctx, c.ID, now); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to consume code", slog.Any("error", err))
			return c, err
		}
		// The guard lost a race; report the state that beat us.
		latest, rerr := codes.GetCodeByUser(ctx, userID)
		if rerr != nil || latest.ID != c.ID {
			return c, ErrCodeAlreadyConsumed
		}
		if gerr := gate(latest, now); gerr != nil {
			return latest, gerr
		}
		return latest, ErrCodeLocked
	}

	c.ConsumedAt = &now
	log.Info("verification code accepted", slog.String("user_id", userID))
	return c, nil
}

// raceState explains a failed attempt increment. The code checked may have been
// locked or consumed by a concurrent request, or replaced by a new one. A
// guess against a replaced code never touches the new code's budget.
func (s *VerificationService) raceState(ctx context.Context, userID string, c domain.VerificationCode, now time.Time) (domain.VerificationCode, error) {
	latest, err := s.Store.VerificationCodes().GetCodeByUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c, ErrCodeNotFound
	case err != nil:
		return c, err
	case latest.ID != c.ID:
		return latest, &InvalidCodeError{Remaining: latest.Remaining()}
	}
	if gerr := gate(latest, now); gerr != nil {
		return latest, gerr
	}
	return latest, ErrCodeLocked
}

// gate applies the checks that run before the code is compared.
func gate(c domain.VerificationCode, now time.Time) error {
	switch {
	case c.Consumed():
		return ErrCodeAlreadyConsumed
	case c.Expired(now):
		return ErrCodeExpired
	case c.Locked():
		return ErrCodeLocked
	default:
		return nil
	}
}

// Invalidate discards the user's live code, if any.
func (s *VerificationService) Invalidate(ctx context.Context, userID string) error {
	return s.Store.VerificationCodes().DeleteCodeByUser(ctx, userID)
}

// SendPhoneCode issues a code for the user's phone and hands it to Sender.
func (s *VerificationService) SendPhoneCode(ctx context.Context, userID string) (domain.VerificationCode, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.VerificationCode{}, mapUserNotFound(err)
	}
	if u.Phone == nil {
		return domain.VerificationCode{}, ErrNoPhone
	}

	vc, err := s.Generate(ctx, userID)
	if err != nil {
		return domain.VerificationCode{}, err
	}

	if s.Sender != nil {
		if err := s.Sender.SendCode(ctx, u, vc); err != nil {
			slogx.FromContext(ctx).Error("failed to deliver code", slog.Any("error", err))
			return domain.VerificationCode{}, err
		}
	}
	return vc, nil
}

// VerifyPhone validates code and marks the user's phone verified.
func (s *VerificationService) VerifyPhone(ctx context.Context, userID, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return mapUserNotFound(err)
	}
	if u.Phone == nil {
		return ErrNoPhone
	}

	if _, err := s.Validate(ctx, userID, code); err != nil {
		return err
	}
	return mapUserNotFound(s.Store.Users().MarkPhoneVerified(ctx, userID))
}
