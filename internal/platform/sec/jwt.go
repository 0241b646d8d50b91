// Copyright (c) 2026 Linkup. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed payload, expiry, or wrong token kind.
// The message is deliberately uniform so callers cannot distinguish why.
var ErrInvalidToken = apperr.New("INVALID_TOKEN", "Invalid or expired token", 401)

// Claims represents the payload embedded inside a Linkup JWT.
//
// # Why custom claims?
//
// By embedding the account ID, email, and role directly inside the JWT,
// the authentication gate can authorize most requests without a second
// database round-trip. Claim names are abbreviated to keep tokens small.
type Claims struct {
	jwt.RegisteredClaims

	AccountID string `json:"uid"`
	Email     string `json:"eml"`
	Role      string `json:"rol"`
}

// TokenPair bundles the two credentials issued at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService issues and verifies HS256-signed access and refresh tokens.
//
// The two token kinds are signed with independent secrets, so an access
// token can never be replayed as a refresh token or vice versa — there is
// no shared key under which both would verify.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenService creates a TokenService with independent signing secrets.
//
// # Parameters
//   - accessSecret / refreshSecret: HMAC keys; must be non-empty and distinct.
//   - accessTTL / refreshTTL: token lifetimes (15m / 7d by configuration default).
//   - issuer: the 'iss' claim stamped on every token.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// AccessTTL returns the configured access-token lifetime.
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// # Issuance

// IssueAccessToken signs a short-lived access token for the given identity.
func (service *TokenService) IssueAccessToken(accountID, email, role string) (string, error) {
	return service.issue(accountID, email, role, service.accessSecret, service.accessTTL)
}

// IssueRefreshToken signs a long-lived refresh token for the given identity.
func (service *TokenService) IssueRefreshToken(accountID, email, role string) (string, error) {
	return service.issue(accountID, email, role, service.refreshSecret, service.refreshTTL)
}

// IssueTokenPair signs both token kinds for the given identity.
func (service *TokenService) IssueTokenPair(accountID, email, role string) (*TokenPair, error) {
	access, err := service.IssueAccessToken(accountID, email, role)
	if err != nil {
		return nil, err
	}

	refresh, err := service.IssueRefreshToken(accountID, email, role)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issue builds and signs a token with the minimum claim set.
func (service *TokenService) issue(accountID, email, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
		Email:     email,
		Role:      role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// # Verification

// VerifyAccessToken checks signature and validity of an access token.
//
// Returns [ErrInvalidToken] for any failure mode, including a refresh token
// presented in place of an access token.
func (service *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return service.verify(tokenString, service.accessSecret)
}

// VerifyRefreshToken checks signature and validity of a refresh token.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return service.verify(tokenString, service.refreshSecret)
}

// verify parses a token against the secret for its expected kind.
func (service *TokenService) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// # Header & Diagnostics Helpers

// ExtractBearer returns the credential portion of an
// 'Authorization: Bearer <token>' header value.
//
// Returns "" (never an error) when the header is absent or malformed; the
// caller decides whether a missing credential is fatal.
func ExtractBearer(headerValue string) string {
	parts := strings.SplitN(headerValue, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	token := strings.TrimSpace(parts[1])
	return token
}

// DecodeUnverified decodes a token's claims WITHOUT checking its signature.
//
// # Security
//
// For diagnostics only (e.g. logging which account presented an expired
// token). Never use the result for authorization decisions.
func DecodeUnverified(tokenString string) *Claims {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}
