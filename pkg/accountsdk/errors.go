package accountsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in ErrorResponse.Error.
const (
	ErrorCodeInvalidRequest  = "invalid_request"
	ErrorCodeValidation      = "validation_error"
	ErrorCodeInvalidToken    = "invalid_token"
	ErrorCodeAccountInactive = "account_inactive"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeDuplicateEmail  = "duplicate_email"
	ErrorCodeDuplicatePhone  = "duplicate_phone"
	ErrorCodeNoPhone         = "no_phone"
	ErrorCodeCodeNotFound    = "code_not_found"
	ErrorCodeCodeExpired     = "code_expired"
	ErrorCodeCodeLocked      = "code_locked"
	ErrorCodeCodeConsumed    = "code_consumed"
	ErrorCodeInvalidCode     = "invalid_code"
	ErrorCodeRateLimited     = "rate_limit_exceeded"
	ErrorCodeServerError     = "server_error"
)

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode        int
	Code              string
	Description       string
	AttemptsRemaining *int
	Details           map[string]string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a failed response body into an *APIError, falling
// back to the status text when the body is not an ErrorResponse.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:        resp.StatusCode,
			Code:              errResp.Error,
			Description:       errResp.ErrorDescription,
			AttemptsRemaining: errResp.AttemptsRemaining,
			Details:           errResp.Details,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
