package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/aussiebroadwan/accounts/pkg/validate"
)

type UserService struct {
	Store store.Store
	Clock func() time.Time
}

// CreateUserParams carries the fields for a new account. Nil flags take
// their defaults: staff and superuser false, active true. An empty Password
// gives the account an unusable credential.
type CreateUserParams struct {
	Email       string
	Password    string
	Phone       string
	FirstName   string
	LastName    string
	IsStaff     *bool
	IsSuperuser *bool
	IsActive    *bool
}

// NormalizeEmail trims the address, lower-cases the domain and then the whole
// address. Empty or malformed input is ErrInvalidEmail.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrInvalidEmail
	}

	if at := strings.LastIndex(email, "@"); at >= 0 {
		email = email[:at] + "@" + strings.ToLower(email[at+1:])
	}
	email = strings.ToLower(email)

	if !validate.Var(email, "email") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// NormalizePhone trims an E.164 number, which must carry its leading .
// Empty input means no phone.
func NormalizePhone(phone string) (*string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	if !validate.Var(phone, validate.PhoneTag) {
		return nil, ErrInvalidPhone
	}
	return &phone, nil
}

func (s *UserService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

// CreateUser registers an account.
func (s *UserService) CreateUser(ctx context.Context, p CreateUserParams) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email, err := NormalizeEmail(p.Email)
	if err != nil {
		return domain.User{}, err
	}
	phone, err := NormalizePhone(p.Phone)
	if err != nil {
		return domain.User{}, err
	}

	// Early exit only; the unique indexes decide under concurrency.
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up email", slog.Any("error", err))
		return domain.User{}, err
	}

	hash := cryptox.UnusablePassword()
	if p.Password != "" {
		hash, err = cryptox.HashPassword(p.Password)
		if err != nil {
			log.Error("failed to hash password", slog.Any("error", err))
			return domain.User{}, err
		}
	}

	now := s.now()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Phone:        phone,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		IsStaff:      boolOr(p.IsStaff, false),
		IsSuperuser:  boolOr(p.IsSuperuser, false),
		IsActive:     boolOr(p.IsActive, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if mapped := mapDuplicate(err); mapped != nil {
			log.Info("rejected duplicate account", slog.Any("error", mapped))
			return domain.User{}, mapped
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user created",
		slog.String("user_id", u.ID),
		slog.Bool("usable_password", p.Password != ""),
		slog.Bool("is_staff", u.IsStaff),
		slog.Bool("is_superuser", u.IsSuperuser),
	)
	return u, nil
}

// CreateSuperuser registers an account with staff and superuser rights. Both
// flags are forced on; explicitly passing false is an error, as is an empty
// password.
func (s *UserService) CreateSuperuser(ctx context.Context, p CreateUserParams) (domain.User, error) {
	if p.IsStaff != nil && !*p.IsStaff {
		return domain.User{}, ErrInvalidStaffFlag
	}
	if p.IsSuperuser != nil && !*p.IsSuperuser {
		return domain.User{}, ErrInvalidSuperuserFlag
	}
	if p.Password == "" {
		return domain.User{}, ErrPasswordRequired
	}

	yes := true
	p.IsStaff = &yes
	p.IsSuperuser = &yes
	return s.CreateUser(ctx, p)
}

// EnsureSuperuser creates the superuser unless an account with that email
// already exists. Safe to call on every start. With no password a random one
// is generated and logged once, since superusers always need a credential.
func (s *UserService) EnsureSuperuser(ctx context.Context, email, password string) (domain.User, bool, error) {
	log := slogx.FromContext(ctx)

	existing, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !existing.IsSuperuser {
			log.Warn("bootstrap email belongs to a non-superuser", slog.String("user_id", existing.ID))
		}
		return existing, false, nil
	case !errors.Is(err, ErrUserNotFound):
		return domain.User{}, false, err
	}

	generated := password == ""
	if generated {
		if password, err = cryptox.GeneratePassword(); err != nil {
			log.Error("failed to generate superuser password", slog.Any("error", err))
			return domain.User{}, false, err
		}
	}

	u, err := s.CreateSuperuser(ctx, CreateUserParams{Email: email, Password: password})
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a race with another instance.
		existing, err := s.GetUserByEmail(ctx, email)
		return existing, false, err
	}
	if err != nil {
		return domain.User{}, false, err
	}

	if generated {
		log.Warn("generated superuser password, change it after first login",
			slog.String("user_id", u.ID),
			slog.String("email", u.Email),
			slog.String("generated_password", password),
		)
	}
	return u, true, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	return u, mapUserNotFound(err)
}

// GetUserByEmail looks the user up by normalised email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.Store.Users().GetUserByEmail(ctx, normalized)
	return u, mapUserNotFound(err)
}

// Authenticate checks an email and password pair. Unknown, inactive and
// password-less accounts all fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidEmail) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if !u.IsActive {
		log.Info("login for inactive user", slog.String("user_id", u.ID))
		return domain.User{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) && !errors.Is(err, cryptox.ErrUnusablePassword) {
			log.Error("stored password hash unreadable", slog.String("user_id", u.ID), slog.Any("error", err))
		}
		return domain.User{}, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.Store.Users().TouchLastLogin(ctx, u.ID, now); err != nil {
		log.Error("failed to record login", slog.Any("error", err))
		return domain.User{}, err
	}
	u.LastLogin = &now
	return u, nil
}

// SetPassword replaces the password. Empty passwords are rejected; use
// SetUnusablePassword to remove password login.
func (s *UserService) SetPassword(ctx context.Context, userID, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}
	return mapUserNotFound(s.Store.Users().UpdatePasswordHash(ctx, userID, hash))
}

// SetUnusablePassword disables password login. Superusers must keep a password.
func (s *UserService) SetUnusablePassword(ctx context.Context, userID string) error {
	u, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.IsSuperuser {
		return ErrPasswordRequired
	}
	return mapUserNotFound(s.Store.Users().UpdatePasswordHash(ctx, userID, cryptox.UnusablePassword()))
}

// UpdatePhone changes (or with "" clears) the phone number. The number goes
// back to unverified and any outstanding code is discarded.
func (s *UserService) UpdatePhone(ctx context.Context, userID, phone string) (domain.User, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return domain.User{}, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePhone(ctx, userID, normalized); err != nil {
			return err
		}
		return tx.VerificationCodes().DeleteCodeByUser(ctx, userID)
	})
	if err != nil {
		if mapped := mapDuplicate(err); mapped != nil {
			return domain.User{}, mapped
		}
		return domain.User{}, mapUserNotFound(err)
	}

	slogx.FromContext(ctx).Info("phone updated", slog.String("user_id", userID))
	return s.GetUserByID(ctx, userID)
}

// Deactivate blocks the account from authenticating without deleting it.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	return mapUserNotFound(s.Store.Users().SetActive(ctx, userID, false))
}

// DeleteUser removes the account with its addresses and codes.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return mapUserNotFound(s.Store.Users().DeleteUser(ctx, userID))
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func mapUserNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// mapDuplicate translates store unique violations, or returns nil.
func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, store.ErrDuplicatePhone):
		return ErrDuplicatePhone
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	default:
		return nil
	}
}
