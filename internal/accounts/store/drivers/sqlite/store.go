package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Connection pragmas for file databases. Transactions begin IMMEDIATE so
// writers queue on the busy timeout instead of failing on lock upgrade.
const filePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate"

type Store struct {
	db  *sql.DB
	dsn string
}

var _ store.Store = (*Store)(nil)

// NewStore opens path, which is either MemoryDSN, a file path, or a full
// "file:" URI used verbatim.
func NewStore(path string) (*Store, error) {
	dsn := buildDSN(path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if path == MemoryDSN {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func buildDSN(path string) string {
	switch {
	case path == MemoryDSN, strings.HasPrefix(path, "file:"):
		return path
	default:
		return "file:" + path + "?" + filePragmas
	}
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                         { return &usersRepo{db: s.db} }
func (s *Store) Addresses() store.Addresses                 { return &addressesRepo{db: s.db} }
func (s *Store) VerificationCodes() store.VerificationCodes { return &codesRepo{db: s.db} }
