package session

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is counted in characters.
const MinPasswordLength = 6

// EmailPattern is the loose address check shared with the contact form.
var EmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidationError is a user-facing rejection of form input. Nothing is
// persisted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpForm is the registration form.
type SignUpForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AcceptTerms     bool   `json:"acceptTerms"`
}

func (c Credentials) validate() error {
	if c.Email == "" || c.Password == "" {
		return &ValidationError{Message: "Please fill in all fields"}
	}
	return nil
}

// validate checks the form in the order the errors are shown to the user.
func (f SignUpForm) validate() error {
	required := []struct{ field, value string }{
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"email", f.Email},
		{"password", f.Password},
		{"confirmPassword", f.ConfirmPassword},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "Please fill in all fields"}
		}
	}
	if !EmailPattern.MatchString(f.Email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters long"}
	}
	if !f.AcceptTerms {
		return &ValidationError{Field: "acceptTerms", Message: "Please agree to the Terms of Service"}
	}
	return nil
}
