// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RequestToken is a signed request token and the account it was issued for.
type RequestToken struct {
	SignedString string
	Account      string
	ExpiresAt    time.Time
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token for account.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the client that signed the request
//   - Subject   (sub): the account name
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// issuer, tokenDuration and signKey are required. An empty account is
// allowed and yields an empty subject.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("go-link-keeper", "alice", 15*time.Minute, "secret")
func GenerateJWTToken(issuer, account string, tokenDuration time.Duration, signKey string) (RequestToken, error) {
	if issuer == "" || tokenDuration <= 0 || signKey == "" {
		return RequestToken{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	expiresAt := now.Add(tokenDuration)
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   account,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return RequestToken{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return RequestToken{SignedString: tokenString, Account: account, ExpiresAt: expiresAt}, nil
}

// ValidateAndParseJWTToken validates the given JWT token string and extracts
// the account it was issued for.
//
// Validation includes:
//   - HS256 signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//
// Example usage:
//
//	token, err := utils.ValidateAndParseJWTToken(rawToken, "secret", "go-link-keeper")
//	if err != nil {
//	    // handle invalid or expired token
//	}
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (RequestToken, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return RequestToken{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	token := RequestToken{SignedString: tokenString, Account: claims.Subject}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	return token, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
