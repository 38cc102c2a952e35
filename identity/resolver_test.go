package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junaidrashid-git/webshop/models"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		id   *models.Identity
		want string
	}{
		{"guest", nil, GuestKey},
		{"id wins", &models.Identity{ID: "u-1", Email: "a@b.co"}, "u-1"},
		{"email fallback", &models.Identity{Email: "a@b.co"}, "a@b.co"},
		{"blank id falls back to email", &models.Identity{ID: "  ", Email: "a@b.co"}, "a@b.co"},
		{"neither", &models.Identity{FirstName: "Ann"}, GuestKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.id))
		})
	}
}

func TestResolverFunc(t *testing.T) {
	var r Resolver = ResolverFunc(func() string { return "k" })
	assert.Equal(t, "k", r.IdentityKey())
}
