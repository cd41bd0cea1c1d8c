package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// Unique constraint violations the driver can attribute to a column.
	// Both match ErrAlreadyExists.
	ErrDuplicateEmail = &duplicateError{field: "email"}
	ErrDuplicatePhone = &duplicateError{field: "phone"}
)

type duplicateError struct{ field string }

func (e *duplicateError) Error() string        { return "store: duplicate " + e.field }
func (e *duplicateError) Is(target error) bool { return target == ErrAlreadyExists }

// Store is the root data access interface. Sub-repositories hang off it as
// methods so a Tx can hand out the same repos bound to the transaction.
type Store interface {
	Users() Users
	Addresses() Addresses
	VerificationCodes() VerificationCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn use only the tx argument.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u. Unique violations come back as ErrDuplicateEmail
	// or ErrDuplicatePhone.
	CreateUser(ctx context.Context, u domain.User) error

	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// UpdatePhone sets the phone (nil clears it) and resets phone_verified.
	UpdatePhone(ctx context.Context, userID string, phone *string) error

	MarkPhoneVerified(ctx context.Context, userID string) error
	SetActive(ctx context.Context, userID string, active bool) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error

	// DeleteUser cascades to addresses and verification codes.
	DeleteUser(ctx context.Context, userID string) error
}

type Addresses interface {
	CreateAddress(ctx context.Context, a domain.Address) error

	// UpdateAddress overwrites the mutable fields of an address owned by
	// a.UserID. Returns ErrNotFound when no such row exists.
	UpdateAddress(ctx context.Context, a domain.Address) error

	GetAddress(ctx context.Context, userID, id string) (domain.Address, error)

	// ListAddresses returns the user's addresses, optionally of one type,
	// defaults first then newest first.
	ListAddresses(ctx context.Context, userID string, typ *domain.AddressType) ([]domain.Address, error)

	// ClearDefaults unsets the default flag on every (userID, typ) address
	// except exceptID, returning how many rows changed.
	ClearDefaults(ctx context.Context, userID string, typ domain.AddressType, exceptID string) (int64, error)

	DeleteAddress(ctx context.Context, userID, id string) error
}

type VerificationCodes interface {
	// UpsertCode stores c as the owner's only code, replacing any previous one.
	UpsertCode(ctx context.Context, c domain.VerificationCode) error

	GetCodeByUser(ctx context.Context, userID string) (domain.VerificationCode, error)

	// IncrementAttempts adds one failed attempt if the code still has
	// attempts left, returning the new count. ErrNotFound means the guard
	// did not match (locked, consumed or gone).
	IncrementAttempts(ctx context.Context, codeID string) (int, error)

	// ConsumeCode marks the code used if it is unconsumed, unlocked and not
	// expired at now. ErrNotFound means the guard did not match.
	ConsumeCode(ctx context.Context, codeID string, now time.Time) error

	DeleteCodeByUser(ctx context.Context, userID string) error

	// DeleteStaleCodes removes codes that expired before now. Consumed codes
	// stay until they expire so a replay still reads as already used.
	DeleteStaleCodes(ctx context.Context, now time.Time) (int64, error)
}
