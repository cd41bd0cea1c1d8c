package domain

import (
	"fmt"
	"time"
)

// AddressType distinguishes billing from shipping addresses.
type AddressType string

const (
	AddressBilling  AddressType = "B"
	AddressShipping AddressType = "S"
)

// Valid reports whether t is a known address type.
func (t AddressType) Valid() bool {
	return t == AddressBilling || t == AddressShipping
}

func (t AddressType) String() string {
	switch t {
	case AddressBilling:
		return "billing"
	case AddressShipping:
		return "shipping"
	default:
		return string(t)
	}
}

// Address is a postal address owned by a user. At most one address per
// (UserID, AddressType) has Default set.
type Address struct {
	ID          string
	UserID      string
	AddressType AddressType `validate:"required,oneof=B S"`
	Default     bool
	Country     string `validate:"required,iso3166_1_alpha2"`
	FirstName   string `validate:"required,max=150"`
	LastName    string `validate:"required,max=150"`
	Phone       string `validate:"required,phone_e164"`
	Street1     string `validate:"required,max=255"`
	Street2     string `validate:"max=255"`
	Region      string `validate:"max=100"`
	City        string `validate:"required,max=100"`
	PostalCode  string `validate:"max=20"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s", a.Street1, a.City, a.Country)
}
