package validate_test

import (
	"errors"
	"testing"

	"github.com/aussiebroadwan/accounts/pkg/validate"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email   string `json:"email" validate:"required,email"`
	Country string `json:"country" validate:"required,iso3166_1_alpha2"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,phone_e164"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, validate.Struct(sample{Email: "a@b.test", Country: "AU", Phone: "+61400000000"}))
	require.NoError(t, validate.Struct(sample{Email: "a@b.test", Country: "NZ"}))

	err := validate.Struct(sample{Email: "nope", Country: "Australia", Phone: "0400"})
	require.Error(t, err)

	var ve *validate.Error
	require.True(t, errors.As(err, &ve))
	require.Equal(t, map[string]string{
		"email":   "email",
		"country": "iso3166_1_alpha2",
		"phone":   "phone_e164",
	}, ve.Fields)
	require.Equal(t, "field 'country' failed 'iso3166_1_alpha2'; field 'email' failed 'email'; field 'phone' failed 'phone_e164'", err.Error())
}

func TestVar(t *testing.T) {
	require.True(t, validate.Var("+14155552671", validate.PhoneTag))
	require.False(t, validate.Var("14155552671", validate.PhoneTag))
	require.False(t, validate.Var("+04155552671", validate.PhoneTag))
	require.False(t, validate.Var("+1415555267100000", validate.PhoneTag))
	require.True(t, validate.Var("x@example.test", "email"))
	require.False(t, validate.Var("x@", "email"))
}
