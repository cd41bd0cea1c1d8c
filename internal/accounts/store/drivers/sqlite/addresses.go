package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

const addressColumns = `id, user_id, address_type, is_default, country, first_name, last_name, phone,
	street_1, street_2, region, city, postal_code, created_at, updated_at`

type addressesRepo struct {
	db dbtx
}

func scanAddress(row scanner) (domain.Address, error) {
	var (
		a                  domain.Address
		typ                string
		createdAt, updated timestamp
	)
	err := row.Scan(
		&a.ID, &a.UserID, &typ, &a.Default, &a.Country, &a.FirstName, &a.LastName, &a.Phone,
		&a.Street1, &a.Street2, &a.Region, &a.City, &a.PostalCode, &createdAt, &updated,
	)
	if err != nil {
		return domain.Address{}, mapNotFound(err)
	}

	a.AddressType = domain.AddressType(typ)
	a.CreatedAt = time.Time(createdAt)
	a.UpdatedAt = time.Time(updated)
	return a, nil
}

func (r *addressesRepo) CreateAddress(ctx context.Context, a domain.Address) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO addresses (`+addressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, string(a.AddressType), a.Default, a.Country, a.FirstName, a.LastName, a.Phone,
		a.Street1, a.Street2, a.Region, a.City, a.PostalCode,
		timestamp(a.CreatedAt), timestamp(a.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *addressesRepo) UpdateAddress(ctx context.Context, a domain.Address) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses SET
			address_type = ?, is_default = ?, country = ?, first_name = ?, last_name = ?, phone = ?,
			street_1 = ?, street_2 = ?, region = ?, city = ?, postal_code = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		string(a.AddressType), a.Default, a.Country, a.FirstName, a.LastName, a.Phone,
		a.Street1, a.Street2, a.Region, a.City, a.PostalCode, timestamp(a.UpdatedAt),
		a.ID, a.UserID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return expectOneRow(res)
}

func (r *addressesRepo) GetAddress(ctx context.Context, userID, id string) (domain.Address, error) {
	return scanAddress(r.db.QueryRowContext(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *addressesRepo) ListAddresses(
	ctx context.Context,
	userID string,
	typ *domain.AddressType,
) ([]domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = ?`
	args := []any{userID}
	if typ != nil {
		query += ` AND address_type = ?`
		args = append(args, string(*typ))
	}
	query += ` ORDER BY is_default DESC, created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *addressesRepo) ClearDefaults(
	ctx context.Context,
	userID string,
	typ domain.AddressType,
	exceptID string,
) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses SET is_default = 0, updated_at = ?
		WHERE user_id = ? AND address_type = ? AND is_default = 1 AND id <> ?`,
		timestamp(nowUTC()), userID, string(typ), exceptID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *addressesRepo) DeleteAddress(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
