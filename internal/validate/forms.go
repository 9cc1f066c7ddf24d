// Package validate holds the client-side form checks run before a request is
// issued. They are advisory UX checks only; the backend remains the authority
// on validity and uniqueness.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

// Validation failures, worded exactly as shown to the user.
var (
	ErrMissingFields = errors.New("You must fill all fields")
	ErrInvalidEmail  = errors.New("Please enter a valid email address.")
	ErrInvalidMobile = errors.New("Please enter a valid 10-digit mobile number.")
	ErrPasswordMatch = errors.New("Passwords don't match!")
	ErrMissingLogin  = errors.New("Provide Email and Password")
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// RegisterForm is the registration form as submitted. Name and Surname are
// required on the form but are not part of the registration payload.
type RegisterForm struct {
	Name     string
	Surname  string
	Username string
	Email    string
	Mobile   string
	Password string
	Retype   string
}

// Validate runs the checks in fixed order and returns the first failure:
// presence, email shape, mobile digits, password confirmation.
func (f RegisterForm) Validate() error {
	if anyEmpty(f.Name, f.Surname, f.Username, f.Email, f.Mobile, f.Password, f.Retype) {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(f.Email) {
		return ErrInvalidEmail
	}
	if !mobilePattern.MatchString(f.Mobile) {
		return ErrInvalidMobile
	}
	if f.Password != f.Retype {
		return ErrPasswordMatch
	}
	return nil
}

// LoginForm is the login form as submitted.
type LoginForm struct {
	Email    string
	Password string
}

// Validate checks presence only; credentials are judged by the backend.
func (f LoginForm) Validate() error {
	if anyEmpty(f.Email, f.Password) {
		return ErrMissingLogin
	}
	return nil
}

func anyEmpty(fields ...string) bool {
	for _, v := range fields {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
