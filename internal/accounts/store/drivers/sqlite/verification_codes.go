package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

const codeColumns = `id, user_id, code_hash, expires_at, attempts_used, max_attempts, consumed_at, created_at`

type codesRepo struct {
	db dbtx
}

func scanCode(row scanner) (domain.VerificationCode, error) {
	var (
		c          domain.VerificationCode
		expiresAt  timestamp
		createdAt  timestamp
		consumedAt nullTimestamp
	)
	err := row.Scan(&c.ID, &c.UserID, &c.CodeHash, &expiresAt, &c.AttemptsUsed, &c.MaxAttempts, &consumedAt, &createdAt)
	if err != nil {
		return domain.VerificationCode{}, mapNotFound(err)
	}

	c.ExpiresAt = time.Time(expiresAt)
	c.CreatedAt = time.Time(createdAt)
	c.ConsumedAt = consumedAt.Ptr()
	return c, nil
}

func (r *codesRepo) UpsertCode(ctx context.Context, c domain.VerificationCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_codes (`+codeColumns+`)
		VALUES (?, ?, ?, ?, 0, ?, NULL, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			id            = excluded.id,
			code_hash     = excluded.code_hash,
			expires_at    = excluded.expires_at,
			attempts_used = 0,
			max_attempts  = excluded.max_attempts,
			consumed_at   = NULL,
			created_at    = excluded.created_at`,
		c.ID, c.UserID, c.CodeHash, timestamp(c.ExpiresAt), c.MaxAttempts, timestamp(c.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *codesRepo) GetCodeByUser(ctx context.Context, userID string) (domain.VerificationCode, error) {
	return scanCode(r.db.QueryRowContext(ctx,
		`SELECT `+codeColumns+` FROM verification_codes WHERE user_id = ?`, userID))
}

func (r *codesRepo) IncrementAttempts(ctx context.Context, codeID string) (int, error) {
	var used int
	err := r.db.QueryRowContext(ctx, `
		UPDATE verification_codes
		SET attempts_used = attempts_used + 1
		WHERE id = ? AND consumed_at IS NULL AND attempts_used < max_attempts
		RETURNING attempts_used`,
		codeID,
	).Scan(&used)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return used, nil
}

func (r *codesRepo) ConsumeCode(ctx context.Context, codeID string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verification_codes
		SET consumed_at = ?
		WHERE id = ? AND consumed_at IS NULL AND attempts_used < max_attempts AND expires_at >= ?`,
		timestamp(now), codeID, timestamp(now),
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *codesRepo) DeleteCodeByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE user_id = ?`, userID)
	return err
}

func (r *codesRepo) DeleteStaleCodes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE expires_at < ?`,
		timestamp(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
