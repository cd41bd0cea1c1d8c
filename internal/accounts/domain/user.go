package domain

import "time"

// User is an account. Email is the login key and is stored lower-cased.
type User struct {
	ID            string
	Email         string
	PasswordHash  string // PHC Argon2id string or an unusable marker
	Phone         *string
	PhoneVerified bool
	FirstName     string
	LastName      string
	IsStaff       bool
	IsSuperuser   bool
	IsActive      bool
	LastLogin     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FullName joins first and last name, trimming the gap when either is empty.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// String renders "Full Name (email)", or just the email when no name is set.
func (u User) String() string {
	if name := u.FullName(); name != "" {
		return name + " (" + u.Email + ")"
	}
	return u.Email
}
