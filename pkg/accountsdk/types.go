package accountsdk

import "time"

// ============================================================================
// Common Types
// ============================================================================

// ErrorResponse is the body of every non-success response.
type ErrorResponse struct {
	// Error is a stable machine-readable code (see the ErrorCode constants)
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description,omitempty"`

	// AttemptsRemaining is set on invalid_code responses
	AttemptsRemaining *int `json:"attempts_remaining,omitempty"`

	// Details maps request fields to the rule they failed
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}

// ============================================================================
// Users
// ============================================================================

// RegisterRequest creates a new account. An empty password creates an
// account that cannot log in with a password.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	PhoneVerified bool       `json:"phone_verified"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	FullName      string     `json:"full_name"`
	IsStaff       bool       `json:"is_staff"`
	IsSuperuser   bool       `json:"is_superuser"`
	IsActive      bool       `json:"is_active"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UpdatePhoneRequest replaces the phone number. An empty Phone clears it.
type UpdatePhoneRequest struct {
	Phone string `json:"phone"`
}

// ============================================================================
// Phone Verification
// ============================================================================

// CodeIssuedResponse is returned when a verification code has been issued.
// The code itself is delivered out of band.
type CodeIssuedResponse struct {
	ExpiresAt   time.Time `json:"expires_at"`
	MaxAttempts int       `json:"max_attempts"`
}

// ConfirmCodeRequest submits a verification code.
type ConfirmCodeRequest struct {
	Code string `json:"code"`
}

// ============================================================================
// Addresses
// ============================================================================

// Address types.
const (
	AddressTypeBilling  = "B"
	AddressTypeShipping = "S"
)

// AddressRequest creates or replaces an address. AddressType defaults to
// shipping when empty.
type AddressRequest struct {
	AddressType string `json:"address_type,omitempty"`
	Default     bool   `json:"default"`
	Country     string `json:"country"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Street1     string `json:"street1"`
	Street2     string `json:"street2,omitempty"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code,omitempty"`
}

// AddressResponse is a stored address.
type AddressResponse struct {
	ID          string    `json:"id"`
	AddressType string    `json:"address_type"`
	Default     bool      `json:"default"`
	Country     string    `json:"country"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	Street1     string    `json:"street1"`
	Street2     string    `json:"street2,omitempty"`
	Region      string    `json:"region,omitempty"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListAddressesResponse lists a user's addresses, defaults first.
type ListAddressesResponse struct {
	Addresses []AddressResponse `json:"addresses"`
}
