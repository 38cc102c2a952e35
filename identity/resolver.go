// Package identity maps the current session identity to the key that
// partitions cart data.
package identity

import (
	"strings"

	"github.com/junaidrashid-git/webshop/models"
)

// GuestKey partitions the cart of a visitor who is not signed in.
const GuestKey = "guest"

// Resolver reports the partition key for the current identity.
type Resolver interface {
	IdentityKey() string
}

// Key returns the identity's id, else its email, else GuestKey.
func Key(id *models.Identity) string {
	if id == nil {
		return GuestKey
	}
	if v := strings.TrimSpace(id.ID); v != "" {
		return v
	}
	if v := strings.TrimSpace(id.Email); v != "" {
		return v
	}
	return GuestKey
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func() string

func (f ResolverFunc) IdentityKey() string { return f() }
