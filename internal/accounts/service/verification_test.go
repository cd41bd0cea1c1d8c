package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/settings"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendCode(ctx context.Context, u domain.User, c domain.VerificationCode) error {
	args := m.Called(ctx, u, c)
	return args.Error(0)
}

type verificationFixture struct {
	users *UserService
	svc   *VerificationService
	clock *testClock
	user  domain.User
}

func newVerificationFixture(t *testing.T, cfg settings.VerificationCodes) verificationFixture {
	t.Helper()
	st := newTestStore(t)
	clock := newTestClock(t0)
	users := &UserService{Store: st, Clock: clock.Now}
	return verificationFixture{
		users: users,
		svc:   &VerificationService{Store: st, Settings: cfg, Clock: clock.Now},
		clock: clock,
		user:  createTestUser(t, users, "verify@example.test", "+61400000100"),
	}
}

// wrongGuess returns a same-length string that differs from code.
func wrongGuess(code string) string {
	if code[0] == '0' {
		return "1" + code[1:]
	}
	return "0" + code[1:]
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("length and alphabet", func(t *testing.T) {
		cfg := settings.Static{Length: 10, Characters: "ABCDEF"}
		f := newVerificationFixture(t, cfg)

		for range 20 {
			vc, err := f.svc.Generate(ctx, f.user.ID)
			require.NoError(t, err)
			require.Len(t, vc.Code, 10)
			for _, r := range vc.Code {
				require.True(t, strings.ContainsRune("ABCDEF", r), "unexpected %q", r)
			}
		}
	})

	t.Run("fields", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		vc, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)
		require.Len(t, vc.Code, 6)
		require.Equal(t, t0.Add(7*time.Minute), vc.ExpiresAt)
		require.Equal(t, 5, vc.MaxAttempts)
		require.Zero(t, vc.AttemptsUsed)
		require.NotEqual(t, vc.Code, vc.CodeHash, "only the fingerprint is stored")
	})

	t.Run("settings are read at call time", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Env{})
		t.Setenv(settings.EnvCodeLength, "8")
		vc, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)
		require.Len(t, vc.Code, 8)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		_, err := f.svc.Generate(ctx, "missing")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("replaces the previous code", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		first, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)
		second, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)

		if first.Code != second.Code {
			_, err = f.svc.Validate(ctx, f.user.ID, first.Code)
			require.ErrorIs(t, err, ErrInvalidCode)
		}
		_, err = f.svc.Validate(ctx, f.user.ID, second.Code)
		require.NoError(t, err)
	})
}

func TestValidateScenario(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, settings.Static{Length: 6, Characters: "0123456789", Attempts: 5, Minutes: 7})

	vc, err := f.svc.Generate(ctx, f.user.ID)
	require.NoError(t, err)
	require.Equal(t, t0.Add(7*time.Minute), vc.ExpiresAt)

	wrong := wrongGuess(vc.Code)
	for i, want := range []int{4, 3, 2, 1, 0} {
		f.clock.Set(t0.Add(time.Duration(i+1) * time.Minute))

		_, err := f.svc.Validate(ctx, f.user.ID, wrong)
		require.ErrorIs(t, err, ErrInvalidCode)

		var ice *InvalidCodeError
		require.True(t, errors.As(err, &ice))
		require.Equal(t, want, ice.Remaining)
	}

	_, err = f.svc.Validate(ctx, f.user.ID, vc.Code)
	require.ErrorIs(t, err, ErrCodeLocked, "locked even with the right code")
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("correct code succeeds once", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		vc, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)

		// A couple of misses first.
		_, err = f.svc.Validate(ctx, f.user.ID, wrongGuess(vc.Code))
		require.ErrorIs(t, err, ErrInvalidCode)

		got, err := f.svc.Validate(ctx, f.user.ID, vc.Code)
		require.NoError(t, err)
		require.NotNil(t, got.ConsumedAt)

		_, err = f.svc.Validate(ctx, f.user.ID, vc.Code)
		require.ErrorIs(t, err, ErrCodeAlreadyConsumed)
	})

	t.Run("valid at the expiry instant", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		vc, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)

		f.clock.Set(vc.ExpiresAt)
		_, err = f.svc.Validate(ctx, f.user.ID, vc.Code)
		require.NoError(t, err)
	})

	t.Run("expired regardless of correctness", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		vc, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)

		f.clock.Set(vc.ExpiresAt.Add(time.Second))
		_, err = f.svc.Validate(ctx, f.user.ID, vc.Code)
		require.ErrorIs(t, err, ErrCodeExpired)

		got, err := f.svc.Validate(ctx, f.user.ID, wrongGuess(vc.Code))
		require.ErrorIs(t, err, ErrCodeExpired)
		require.Zero(t, got.AttemptsUsed, "expired codes do not spend attempts")
	})

	t.Run("expired takes precedence over locked", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{Attempts: 1})
		vc, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)

		_, err = f.svc.Validate(ctx, f.user.ID, wrongGuess(vc.Code))
		require.ErrorIs(t, err, ErrInvalidCode)

		f.clock.Set(vc.ExpiresAt.Add(time.Minute))
		_, err = f.svc.Validate(ctx, f.user.ID, vc.Code)
		require.ErrorIs(t, err, ErrCodeExpired)
	})

	t.Run("no code", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		_, err := f.svc.Validate(ctx, f.user.ID, "123456")
		require.ErrorIs(t, err, ErrCodeNotFound)
	})

	t.Run("invalidate", func(t *testing.T) {
		f := newVerificationFixture(t, settings.Static{})
		vc, err := f.svc.Generate(ctx, f.user.ID)
		require.NoError(t, err)
		require.NoError(t, f.svc.Invalidate(ctx, f.user.ID))
		_, err = f.svc.Validate(ctx, f.user.ID, vc.Code)
		require.ErrorIs(t, err, ErrCodeNotFound)
	})
}

func TestValidateConcurrentGuesses(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, settings.Static{Attempts: 5})
	vc, err := f.svc.Generate(ctx, f.user.ID)
	require.NoError(t, err)
	wrong := wrongGuess(vc.Code)

	const callers = 12
	var (
		wg              sync.WaitGroup
		mu              sync.Mutex
		invalid, locked int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Validate(ctx, f.user.ID, wrong)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrInvalidCode):
				invalid++
			case errors.Is(err, ErrCodeLocked):
				locked++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, invalid, "every attempt is counted exactly once")
	require.Equal(t, callers-5, locked)

	stored, err := f.svc.Store.VerificationCodes().GetCodeByUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Equal(t, 5, stored.AttemptsUsed)
}

func TestPhoneVerification(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, settings.Static{})

	sender := &mockSender{}
	sender.On("SendCode", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.ID == f.user.ID
	}), mock.Anything).Return(nil).Once()
	f.svc.Sender = sender

	vc, err := f.svc.SendPhoneCode(ctx, f.user.ID)
	require.NoError(t, err)
	sender.AssertExpectations(t)

	delivered := sender.Calls[0].Arguments.Get(2).(domain.VerificationCode)
	require.Equal(t, vc.Code, delivered.Code)

	err = f.svc.VerifyPhone(ctx, f.user.ID, wrongGuess(vc.Code))
	require.ErrorIs(t, err, ErrInvalidCode)

	require.NoError(t, f.svc.VerifyPhone(ctx, f.user.ID, delivered.Code))
	u, err := f.users.GetUserByID(ctx, f.user.ID)
	require.NoError(t, err)
	require.True(t, u.PhoneVerified)

	t.Run("no phone on file", func(t *testing.T) {
		bare := createTestUser(t, f.users, "bare@example.test", "")
		_, err := f.svc.SendPhoneCode(ctx, bare.ID)
		require.ErrorIs(t, err, ErrNoPhone)
		require.ErrorIs(t, f.svc.VerifyPhone(ctx, bare.ID, "123456"), ErrNoPhone)
	})

	t.Run("delivery failure", func(t *testing.T) {
		failing := &mockSender{}
		failing.On("SendCode", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sms gateway down"))
		svc := *f.svc
		svc.Sender = failing
		_, err := svc.SendPhoneCode(ctx, f.user.ID)
		require.Error(t, err)
	})
}

func TestLogCodeSender(t *testing.T) {
	require.Equal(t, "+********123", maskPhone("+61400000123"))
	require.Equal(t, "12", maskPhone("12"))

	u := domain.User{ID: "u1", Phone: ptr("+61400000123")}
	require.NoError(t, LogCodeSender{}.SendCode(context.Background(), u, domain.VerificationCode{Code: "123456"}))
}

// replacingStore runs replace just before a failed attempt is recorded,
// standing in for a concurrent Generate.
type replacingStore struct {
	store.Store
	replace func()
}

func (s replacingStore) VerificationCodes() store.VerificationCodes {
	return replaceBeforeIncrement{VerificationCodes: s.Store.VerificationCodes(), replace: s.replace}
}

type replaceBeforeIncrement struct {
	store.VerificationCodes
	replace func()
}

func (r replaceBeforeIncrement) IncrementAttempts(ctx context.Context, codeID string) (int, error) {
	r.replace()
	return r.VerificationCodes.IncrementAttempts(ctx, codeID)
}

func TestValidateCodeReplacedMidGuess(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, settings.Static{})

	old, err := f.svc.Generate(ctx, f.user.ID)
	require.NoError(t, err)

	var fresh domain.VerificationCode
	racing := &VerificationService{
		Store: replacingStore{Store: f.svc.Store, replace: func() {
			var gerr error
			fresh, gerr = f.svc.Generate(ctx, f.user.ID)
			require.NoError(t, gerr)
		}},
		Settings: settings.Static{},
		Clock:    f.clock.Now,
	}

	_, err = racing.Validate(ctx, f.user.ID, wrongGuess(old.Code))
	require.NotErrorIs(t, err, ErrCodeLocked)
	var invalid *InvalidCodeError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 5, invalid.Remaining, "the replacement keeps its full budget")

	_, err = f.svc.Validate(ctx, f.user.ID, fresh.Code)
	require.NoError(t, err)
}
