// Copyright (c) 2026 Linkup. All rights reserved.

package account

import (
	"context"
	"time"
)

// # Credential Store Contract

// Store defines the data access contract for credential records.
//
// Implementations must return [apperr.AppError] values for enumerable
// conditions (not-found, duplicate email) and wrapped internal errors for
// everything else. All write methods are partial-field updates — callers
// never persist a whole Account after mutation.
type Store interface {

	/*
		Create persists a brand-new account.

		Returns:
		  - error: CONFLICT when the email is already registered, or persistence failures
	*/
	Create(ctx context.Context, acct *Account) error

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *Account: Hydrated entity
		  - error: NOT_FOUND or database retrieval failures
	*/
	FindByID(ctx context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given (normalized) email.

		Returns:
		  - *Account: Hydrated entity
		  - error: NOT_FOUND or database retrieval failures
	*/
	FindByEmail(ctx context.Context, email string) (*Account, error)

	/*
		Delete removes the account row entirely.

		Only used as registration compensation when OTP delivery fails.
	*/
	Delete(ctx context.Context, id string) error

	/*
		SetChallenge stores an OTP challenge on the account, replacing any
		previous one.
	*/
	SetChallenge(ctx context.Context, id, code string, expiresAt time.Time) error

	/*
		ClearChallenge removes the pending OTP challenge, if any.
	*/
	ClearChallenge(ctx context.Context, id string) error

	/*
		Activate transitions the account to [StatusActive] and clears the
		consumed OTP challenge in the same statement.
	*/
	Activate(ctx context.Context, id string) error

	/*
		SetRefreshToken overwrites the refresh-token pointer. The previous
		token (if any) is thereby revoked.
	*/
	SetRefreshToken(ctx context.Context, id, token string) error

	/*
		ClearRefreshToken removes the refresh-token pointer. Idempotent.
	*/
	ClearRefreshToken(ctx context.Context, id string) error

	/*
		RecordLogin stamps the last successful login time.
	*/
	RecordLogin(ctx context.Context, id string, at time.Time) error

	/*
		UpdateStatus sets the lifecycle status (administrative transitions).
	*/
	UpdateStatus(ctx context.Context, id string, status Status) error

	/*
		List returns a page of accounts plus the total count, newest first.
	*/
	List(ctx context.Context, limit, offset int) ([]*Account, int, error)
}
