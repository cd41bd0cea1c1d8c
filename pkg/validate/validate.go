package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PhoneTag accepts only canonical E.164, leading '+' included. The stock
// e164 rule leaves the '+' optional.
const PhoneTag = "phone_e164"

var phoneE164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// v is the package-level singleton validator. Field names in errors use the
// json tag so they line up with request bodies.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := val.RegisterValidation(PhoneTag, func(fl validator.FieldLevel) bool {
		return phoneE164.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return val
}

// Error lists failing fields and the rule each one broke.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", k, e.Fields[k]))
	}
	return strings.Join(msgs, "; ")
}

// Struct validates the given struct using its validate tags.
// Rule violations come back as *Error.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &Error{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		out.Fields[fe.Field()] = fe.Tag()
	}
	return out
}

// Var validates a single value against tag, e.g. Var(phone, PhoneTag).
func Var(field any, tag string) bool {
	return v.Var(field, tag) == nil
}
