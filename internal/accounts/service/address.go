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
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/aussiebroadwan/accounts/pkg/validate"
)

// AddressService keeps at most one default address per user and type.
type AddressService struct {
	Store store.Store
	Clock func() time.Time
}

func (s *AddressService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock().UTC()
}

// DemoteOthersThenWrite saves a. An empty ID inserts a new address and fills
// in the ID; otherwise the user's existing address is overwritten. When
// a.Default is set, every other default of the same user and type is cleared
// in the same transaction. Non-default saves touch no other row.
func (s *AddressService) DemoteOthersThenWrite(ctx context.Context, a *domain.Address) error {
	log := slogx.FromContext(ctx)

	w := *a
	if w.AddressType == "" {
		w.AddressType = domain.AddressShipping
	}
	w.Country = strings.ToUpper(strings.TrimSpace(w.Country))

	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	now := s.now()
	w.UpdatedAt = now

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		addrs := tx.Addresses()

		insert := w.ID == ""
		if insert {
			w.ID = idx.New().String()
			w.CreatedAt = now
		} else {
			existing, err := addrs.GetAddress(ctx, w.UserID, w.ID)
			if err != nil {
				return err
			}
			w.CreatedAt = existing.CreatedAt
		}

		if w.Default {
			demoted, err := addrs.ClearDefaults(ctx, w.UserID, w.AddressType, w.ID)
			if err != nil {
				return err
			}
			if demoted > 0 {
				log.Debug("demoted default addresses",
					slog.String("user_id", w.UserID),
					slog.String("address_type", string(w.AddressType)),
					slog.Int64("count", demoted),
				)
			}
		}

		if insert {
			return addrs.CreateAddress(ctx, w)
		}
		return addrs.UpdateAddress(ctx, w)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAddressNotFound
		}
		log.Error("failed to save address", slog.Any("error", err))
		return err
	}

	*a = w
	return nil
}

// List returns the user's addresses, optionally only of typ.
func (s *AddressService) List(ctx context.Context, userID string, typ *domain.AddressType) ([]domain.Address, error) {
	if typ != nil && !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown address type %q", ErrInvalidAddress, string(*typ))
	}
	return s.Store.Addresses().ListAddresses(ctx, userID, typ)
}

// Get returns one of the user's addresses.
func (s *AddressService) Get(ctx context.Context, userID, addressID string) (domain.Address, error) {
	a, err := s.Store.Addresses().GetAddress(ctx, userID, addressID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Address{}, ErrAddressNotFound
	}
	return a, err
}

// SetDefault makes an existing address the default of its type.
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID string) (domain.Address, error) {
	a, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return domain.Address{}, err
	}
	a.Default = true
	if err := s.DemoteOthersThenWrite(ctx, &a); err != nil {
		return domain.Address{}, err
	}
	return a, nil
}

// Delete removes one of the user's addresses. Deleting the default leaves
// the type without one.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	err := s.Store.Addresses().DeleteAddress(ctx, userID, addressID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAddressNotFound
	}
	return err
}
