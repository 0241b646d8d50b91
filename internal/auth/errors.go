// Copyright (c) 2026 Linkup. All rights reserved.

package auth

import (
	"net/http"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
)

// Caller-visible failure classes of the session lifecycle. Status-gated
// errors (banned, not active) live in the account package next to [account.Status].
var (
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = apperr.New("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)

	// ErrInvalidOTP is returned when a verification code mismatches, has
	// expired, or was already consumed.
	ErrInvalidOTP = apperr.New("INVALID_OTP", "Invalid or expired verification code", http.StatusBadRequest)

	// ErrMissingToken is returned when a refresh request carries no token.
	ErrMissingToken = apperr.New("MISSING_TOKEN", "Refresh token is required", http.StatusBadRequest)
)

// NotificationFailure wraps a mail delivery error.
//
// Registration treats this as fatal and rolls back the created account, so
// the caller can safely retry the whole operation.
func NotificationFailure(cause error) *apperr.AppError {
	return apperr.BadGateway("NOTIFICATION_FAILURE", "Failed to deliver the verification email", cause)
}
