package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/avolkhin/tripmate/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWTToken issues an HMAC-SHA256 signed bearer token for userID.
//
// The user ID travels in the "sub" claim as a base-10 string; "iss", "iat"
// and "exp" are filled from issuer, the current time, and tokenDuration.
// Issuer, duration, and sign key must all be set.
func GenerateJWTToken(issuer string, userID int64, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("issuer, token duration and sign key are required")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, UserID: userID}, nil
}

// ValidateAndParseJWTToken verifies tokenString (signature, expiry, and the
// expected issuer) and returns a [models.Token] with the user ID extracted
// from the "sub" claim.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Token{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.Token{}, fmt.Errorf("token validation failed: %w", err)
	}

	userIDStr, err := token.Claims.GetSubject()
	if err != nil {
		return models.Token{}, fmt.Errorf("reading subject claim: %w", err)
	}
	if userIDStr == "" {
		return models.Token{}, errors.New("token carries no subject")
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return models.Token{}, fmt.Errorf("subject claim is not a user ID: %w", err)
	}

	return models.Token{Token: token, UserID: userID}, nil
}
