package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/webshop/models"
)

type recordingPublisher struct {
	profiles []string
	frames   []Frame
}

func (r *recordingPublisher) Publish(profileID string, frame Frame) {
	r.profiles = append(r.profiles, profileID)
	r.frames = append(r.frames, frame)
}

func TestRender_Anonymous(t *testing.T) {
	s := NewSynchronizer(nil, nil)

	frame, err := s.Render(Snapshot{Cart: models.Cart{"Widget": {Quantity: 2, Price: 9.99}}})
	require.NoError(t, err)

	assert.False(t, frame.SignedIn)
	assert.Equal(t, 2, frame.CartCount)
	assert.Contains(t, frame.Header, "Sign in")
	assert.Contains(t, frame.Header, "Get started")
	assert.NotContains(t, frame.Header, `data-action="logout"`)
	assert.Contains(t, frame.Header, "<span class=\"cart-count\" data-cart-count>2</span>")
}

func TestRender_SignedIn(t *testing.T) {
	s := NewSynchronizer(nil, nil)
	id := &models.Identity{ID: "u1", FirstName: "ada", LastName: "Lovelace", Email: "ada@example.com"}

	frame, err := s.Render(Snapshot{Identity: id, Cart: models.Cart{}})
	require.NoError(t, err)

	assert.True(t, frame.SignedIn)
	assert.Contains(t, frame.Header, ">AL</button>")
	assert.Contains(t, frame.Header, "ada Lovelace")
	assert.Contains(t, frame.Header, "ada@example.com")
	assert.Contains(t, frame.Header, `data-action="logout"`)
	assert.NotContains(t, frame.Header, "Get started")
	assert.Equal(t, 0, frame.CartCount)
}

func TestRender_CartPanel(t *testing.T) {
	s := NewSynchronizer(nil, nil)

	t.Run("empty", func(t *testing.T) {
		frame, err := s.Render(Snapshot{})
		require.NoError(t, err)
		assert.Contains(t, frame.CartPanel, "Your cart is empty.")
		assert.NotContains(t, frame.CartPanel, `data-action="clear-cart"`)
		assert.Empty(t, frame.Total)
	})

	t.Run("rows and total", func(t *testing.T) {
		frame, err := s.Render(Snapshot{Cart: models.Cart{
			"Widget": {Quantity: 2, Price: 9.99},
			"Bolt":   {Quantity: 1, Price: 0.5},
		}})
		require.NoError(t, err)
		assert.Equal(t, "20.48", frame.Total)
		assert.Contains(t, frame.CartPanel, "Total: $20.48")
		assert.Contains(t, frame.CartPanel, "Widget x2")
		assert.Contains(t, frame.CartPanel, "$19.98")
		assert.Contains(t, frame.CartPanel, `data-action="remove-item" data-name="Widget"`)
		assert.Less(t, strings.Index(frame.CartPanel, "Bolt"), strings.Index(frame.CartPanel, "Widget"))
	})

	t.Run("names are escaped", func(t *testing.T) {
		frame, err := s.Render(Snapshot{Cart: models.Cart{`<script>"x"</script>`: {Quantity: 1, Price: 1}}})
		require.NoError(t, err)
		assert.NotContains(t, frame.CartPanel, "<script>")
		assert.Contains(t, frame.CartPanel, "&lt;script&gt;")
	})
}

func TestRefresh_Publishes(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewSynchronizer(pub, nil)

	frame, err := s.Refresh("profile-1", Snapshot{Cart: models.Cart{"A": {Quantity: 3, Price: 1}}})
	require.NoError(t, err)

	require.Len(t, pub.frames, 1)
	assert.Equal(t, "profile-1", pub.profiles[0])
	assert.Equal(t, frame, pub.frames[0])
	assert.Equal(t, 3, pub.frames[0].CartCount)
}
