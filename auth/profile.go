// Package auth issues and checks the signed token that names a browser
// profile.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid or expired profile token")

// ProfileClaims is the payload of a profile token.
type ProfileClaims struct {
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}

// NewProfileID returns a fresh profile id.
func NewProfileID() string {
	return "profile_" + uuid.NewString()
}

// IssueProfileToken signs a token for profileID valid for ttl from now.
func IssueProfileToken(secret []byte, profileID string, ttl time.Duration, now time.Time) (string, error) {
	claims := ProfileClaims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseProfileToken returns the profile id of a valid token.
func ParseProfileToken(secret []byte, tokenString string) (string, error) {
	var claims ProfileClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.ProfileID == "" {
		return "", ErrInvalidToken
	}
	return claims.ProfileID, nil
}
