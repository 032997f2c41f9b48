package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a parsed or freshly issued JWT together with the fields auth
// flows actually read. The embedded [jwt.Token] and [jwt.RegisteredClaims]
// give access to signing and the standard claim set; SignedString is the
// compact serialization that goes into the Authorization header; UserID
// caches the "sub" claim converted to int64 so callers do not re-parse it.
//
// None of the fields are serialized to JSON; API responses wrap the signed
// string in [AuthResponse] instead.
type Token struct {
	*jwt.Token `json:"-"`
	jwt.RegisteredClaims

	SignedString string `json:"-"`
	UserID       int64  `json:"-"`
}

// GetUserID reads the "sub" claim and parses it as a base-10 int64.
func (t *Token) GetUserID() (int64, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("reading subject claim: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("subject claim is not a user ID: %w", err)
	}

	return userID, nil
}

// String implements [fmt.Stringer] by returning the compact serialization.
func (t *Token) String() string {
	return t.SignedString
}
