package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

const userColumns = `id, email, password_hash, phone, phone_verified, first_name, last_name,
	is_staff, is_superuser, is_active, last_login, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u                  domain.User
		phone              sql.NullString
		lastLogin          nullTimestamp
		createdAt, updated timestamp
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &phone, &u.PhoneVerified, &u.FirstName, &u.LastName,
		&u.IsStaff, &u.IsSuperuser, &u.IsActive, &lastLogin, &createdAt, &updated,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.Phone = mapNullStringPtr(phone)
	u.LastLogin = lastLogin.Ptr()
	u.CreatedAt = time.Time(createdAt)
	u.UpdatedAt = time.Time(updated)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower(?)`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, mapOptionalString(u.Phone), u.PhoneVerified, u.FirstName, u.LastName,
		u.IsStaff, u.IsSuperuser, u.IsActive, newNullTimestamp(u.LastLogin),
		timestamp(u.CreatedAt), timestamp(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, timestamp(nowUTC()), userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *usersRepo) UpdatePhone(ctx context.Context, userID string, phone *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone = ?, phone_verified = 0, updated_at = ? WHERE id = ?`,
		mapOptionalString(phone), timestamp(nowUTC()), userID)
	if err != nil {
		return mapConstraint(err)
	}
	return expectOneRow(res)
}

func (r *usersRepo) MarkPhoneVerified(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone_verified = 1, updated_at = ? WHERE id = ?`,
		timestamp(nowUTC()), userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, timestamp(nowUTC()), userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		timestamp(at), userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
