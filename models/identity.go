package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Identity is the signed-in user context persisted under "currentUser".
// A nil *Identity is the guest.
type Identity struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Initials is the upper-cased first letter of the first and last name.
func (i *Identity) Initials() string {
	var b strings.Builder
	for _, name := range []string{i.FirstName, i.LastName} {
		if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// FullName joins first and last name.
func (i *Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}
