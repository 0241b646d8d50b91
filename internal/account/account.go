// Copyright (c) 2026 Linkup. All rights reserved.

/*
Package account defines the persisted credential record and its storage contract.

Every piece of authentication state lives on the Account row: the password
hash, the lifecycle status, the pending OTP challenge, and the pointer to the
single currently-valid refresh token. The package holds no business logic —
the auth service orchestrates transitions, this package persists them.

# Lifecycle

Accounts are created as [StatusUnverified], become [StatusActive] on a
successful OTP verification, and may be set to [StatusBanned] by an
administrator. Accounts are never hard-deleted except as compensation when
registration fails to deliver the verification code.
*/
package account

import (
	"strings"
	"time"
)

// # Lifecycle Status

// Status is the account lifecycle state.
type Status string

const (
	// StatusUnverified is the initial state after registration, before the
	// email OTP challenge has been answered.
	StatusUnverified Status = "unverified"

	// StatusActive means the account completed OTP verification and may log in.
	StatusActive Status = "active"

	// StatusBanned is set by administrative action only.
	StatusBanned Status = "banned"
)

// # Roles

// Role is the authorization level granted to an account.
type Role string

const (
	// RoleAdmin grants access to the administrative endpoints.
	RoleAdmin Role = "admin"

	// RoleUser is the default role for registered members.
	RoleUser Role = "user"
)

// # Domain Entity

// Account represents a registered member of the Linkup platform.
//
// Secret-bearing fields (password hash, OTP challenge, refresh-token pointer)
// are excluded from JSON so an Account can be returned to clients directly.
type Account struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"-"`
	Status       Status `json:"status"`
	Role         Role   `json:"role"`

	// OTP challenge. Nil when no challenge is pending. At most one valid
	// challenge exists per account at any time.
	OTPCode      *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`

	// RefreshToken is the only refresh token honored for this account.
	// Overwriting it revokes any previously issued one.
	RefreshToken *string `json:"-"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Sanitized returns a copy of the account with every credential field zeroed.
//
// The authentication gate attaches this copy to the request context, so
// downstream handlers can never observe the password hash, the pending OTP
// challenge, or the refresh-token pointer even by accident.
func (a *Account) Sanitized() *Account {
	clone := *a
	clone.PasswordHash = ""
	clone.OTPCode = nil
	clone.OTPExpiresAt = nil
	clone.RefreshToken = nil
	return &clone
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Emails are unique case-insensitively, so every path that touches the store
// must go through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
