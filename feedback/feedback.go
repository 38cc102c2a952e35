// Package feedback validates the contact and review forms. The server and
// the API client run the same checks.
package feedback

import (
	"errors"
	"strings"

	"github.com/junaidrashid-git/webshop/session"
)

var (
	ErrFieldsRequired = errors.New("All fields required.")
	ErrInvalidEmail   = errors.New("Invalid email format.")
)

// ContactForm is a message for the shop owner.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Normalize trims every field.
func (f ContactForm) Normalize() ContactForm {
	return ContactForm{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate expects a normalized form.
func (f ContactForm) Validate() error {
	if f.Name == "" || f.Email == "" || f.Message == "" {
		return ErrFieldsRequired
	}
	if !session.EmailPattern.MatchString(f.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// ReviewForm is a public review.
type ReviewForm struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (f ReviewForm) Normalize() ReviewForm {
	return ReviewForm{Name: strings.TrimSpace(f.Name), Message: strings.TrimSpace(f.Message)}
}

func (f ReviewForm) Validate() error {
	if f.Name == "" || f.Message == "" {
		return ErrFieldsRequired
	}
	return nil
}
