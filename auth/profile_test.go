package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestProfileToken_RoundTrip(t *testing.T) {
	id := NewProfileID()
	require.True(t, strings.HasPrefix(id, "profile_"))

	token, err := IssueProfileToken(secret, id, time.Hour, time.Now())
	require.NoError(t, err)

	got, err := ParseProfileToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestProfileToken_Rejects(t *testing.T) {
	valid, err := IssueProfileToken(secret, "p1", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := IssueProfileToken(secret, "p1", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	empty, err := IssueProfileToken(secret, "", time.Hour, time.Now())
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, ProfileClaims{ProfileID: "p1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]struct {
		secret []byte
		token  string
	}{
		"wrong secret":  {[]byte("other"), valid},
		"expired":       {secret, expired},
		"no profile id": {secret, empty},
		"garbage":       {secret, "not-a-token"},
		"alg none":      {secret, none},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfileToken(tc.secret, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
