// Copyright (c) 2026 Linkup. All rights reserved.

package account

import (
	"net/http"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
)

// Status-gated access errors shared by the authentication gate and the
// session lifecycle. They live next to [Status] so every consumer maps a
// given status to the same caller-visible outcome.
var (
	// ErrBanned is returned when a banned account attempts any authenticated
	// operation or login.
	ErrBanned = apperr.New("ACCOUNT_BANNED", "Account has been banned", http.StatusForbidden)

	// ErrNotActive is returned when an account that has not completed email
	// verification attempts an operation reserved for active accounts.
	ErrNotActive = apperr.New("ACCOUNT_NOT_ACTIVE", "Account is not active", http.StatusForbidden)
)

// AccessibleBy reports whether the given status may hold an authenticated
// session, returning the matching gate error when it may not.
func AccessibleBy(status Status) error {
	switch status {
	case StatusActive:
		return nil
	case StatusBanned:
		return ErrBanned
	default:
		return ErrNotActive
	}
}
