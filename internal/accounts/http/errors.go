package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/aussiebroadwan/accounts/pkg/validate"
)

func writeError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteJSON(w, status, accountsdk.ErrorResponse{Error: code, ErrorDescription: desc})
}

func writeValidationError(w http.ResponseWriter, desc string, details map[string]string) {
	httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
		Error:            accountsdk.ErrorCodeValidation,
		ErrorDescription: desc,
		Details:          details,
	})
}

// writeServiceError maps a service error to its HTTP response. Anything
// unrecognised is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidCode *service.InvalidCodeError
		fields      *validate.Error
	)

	switch {
	case errors.Is(err, httpx.ErrBadJSON):
		writeError(w, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest, err.Error())

	case errors.Is(err, service.ErrInvalidEmail):
		writeValidationError(w, err.Error(), map[string]string{"email": "email"})
	case errors.Is(err, service.ErrInvalidPhone):
		writeValidationError(w, err.Error(), map[string]string{"phone": validate.PhoneTag})
	case errors.Is(err, service.ErrPasswordRequired):
		writeValidationError(w, err.Error(), map[string]string{"password": "required"})
	case errors.As(err, &fields):
		writeValidationError(w, "invalid address", fields.Fields)
	case errors.Is(err, service.ErrInvalidAddress):
		writeValidationError(w, err.Error(), nil)

	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, accountsdk.ErrorCodeDuplicateEmail, "email already registered")
	case errors.Is(err, service.ErrDuplicatePhone):
		writeError(w, http.StatusConflict, accountsdk.ErrorCodeDuplicatePhone, "phone already registered")

	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken, "account not found")
	case errors.Is(err, service.ErrAddressNotFound):
		writeError(w, http.StatusNotFound, accountsdk.ErrorCodeNotFound, "address not found")
	case errors.Is(err, service.ErrNoPhone):
		writeError(w, http.StatusConflict, accountsdk.ErrorCodeNoPhone, "no phone number on file")

	case errors.As(err, &invalidCode):
		remaining := invalidCode.Remaining
		httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
			Error:             accountsdk.ErrorCodeInvalidCode,
			ErrorDescription:  "incorrect code",
			AttemptsRemaining: &remaining,
		})
	case errors.Is(err, service.ErrCodeNotFound):
		writeError(w, http.StatusNotFound, accountsdk.ErrorCodeCodeNotFound, "no code has been issued, request a new code")
	case errors.Is(err, service.ErrCodeExpired):
		writeError(w, http.StatusGone, accountsdk.ErrorCodeCodeExpired, "code expired, request a new code")
	case errors.Is(err, service.ErrCodeLocked):
		writeError(w, http.StatusLocked, accountsdk.ErrorCodeCodeLocked, "too many attempts, request a new code")
	case errors.Is(err, service.ErrCodeAlreadyConsumed):
		writeError(w, http.StatusConflict, accountsdk.ErrorCodeCodeConsumed, "code already used")

	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, accountsdk.ErrorCodeServerError, httpx.ServerErrorDescription(r))
	}
}

// currentUser loads the account named by the bearer token. Inactive accounts
// are refused.
func currentUser(w http.ResponseWriter, r *http.Request, users *service.UserService) (domain.User, bool) {
	id := httpx.AccountID(r.Context())
	if id == "" {
		writeError(w, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken, "missing account")
		return domain.User{}, false
	}

	u, err := users.GetUserByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return domain.User{}, false
	}
	if !u.IsActive {
		writeError(w, http.StatusForbidden, accountsdk.ErrorCodeAccountInactive, "account is inactive")
		return domain.User{}, false
	}
	return u, true
}

func toUserResponse(u domain.User) accountsdk.UserResponse {
	return accountsdk.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Phone:         u.Phone,
		PhoneVerified: u.PhoneVerified,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		FullName:      u.FullName(),
		IsStaff:       u.IsStaff,
		IsSuperuser:   u.IsSuperuser,
		IsActive:      u.IsActive,
		LastLogin:     u.LastLogin,
		CreatedAt:     u.CreatedAt,
	}
}
