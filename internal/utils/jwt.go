package utils // package utils provides helper functions for token creation and hashing

import (
	"strconv" // strconv renders numeric claims as strings
	"time"    // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are short-lived and encoded
// in the Authorization header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT.  It takes the signing
// secret, the subject (student or admin ID), the role claim (STUDENT
// or ADMIN), the school the account belongs to, and a TTL in minutes.
// The school claim scopes session and seat administration without an
// extra lookup on every request.
func NewAccessToken(secret string, userID uint64, role string, schoolID uint64, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":       strconv.FormatUint(userID, 10),
		"role":      role,
		"school_id": strconv.FormatUint(schoolID, 10),
		"iat":       time.Now().UTC().Unix(),
		"exp":       exp.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
