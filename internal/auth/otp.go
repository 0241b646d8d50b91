// Copyright (c) 2026 Linkup. All rights reserved.

package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/chanhlegend/linkup/internal/account"
)

// Numeric range of a 6-digit code. The lower bound excludes leading zeros
// so every code is exactly OTPLength digits wide.
const (
	otpMin = 100000
	otpMax = 999999
)

/*
ChallengeManager owns the one-time-passcode lifecycle.

A challenge is a short-lived numeric code stored on the account row. Issuing
a new challenge always replaces the previous one, so at most one valid code
exists per account at any time.
*/
type ChallengeManager struct {
	accounts account.Store
}

// NewChallengeManager constructs a [ChallengeManager] over the given store.
func NewChallengeManager(accounts account.Store) *ChallengeManager {
	return &ChallengeManager{accounts: accounts}
}

/*
Issue generates a fresh code and stores it on the account.

Any previously issued code stops validating the moment the new one is
persisted.

Parameters:
  - ctx: context.Context
  - accountID: Target account

Returns:
  - string: The generated code, for delivery to the user
  - error: Generation or storage failures
*/
func (manager *ChallengeManager) Issue(ctx context.Context, accountID string) (string, error) {

	// Generate a uniformly distributed code
	code, err := GenerateCode()
	if err != nil {
		return "", fmt.Errorf("auth_otp_generate_failed: %w", err)
	}

	// Persist the challenge with a fresh expiry, replacing any prior code
	expiresAt := time.Now().Add(OTPTTL)
	if err := manager.accounts.SetChallenge(ctx, accountID, code, expiresAt); err != nil {
		return "", fmt.Errorf("auth_otp_store_failed: %w", err)
	}

	return code, nil
}

/*
Validate checks a submitted code against the account's stored challenge.

The check is pure; consuming the challenge (clearing it after success) is
the caller's responsibility so that activation and clearing happen in one
store operation.

Returns:
  - error: ErrInvalidOTP on mismatch, expiry, or when no challenge exists
*/
func (manager *ChallengeManager) Validate(acct *account.Account, submittedCode string) error {

	// No challenge on record (never issued, already consumed, or cleared)
	if acct.OTPCode == nil || acct.OTPExpiresAt == nil {
		return ErrInvalidOTP
	}

	// The stored code must match exactly
	if *acct.OTPCode != submittedCode {
		return ErrInvalidOTP
	}

	// The challenge must not have expired
	if time.Now().After(*acct.OTPExpiresAt) {
		return ErrInvalidOTP
	}

	return nil
}

// GenerateCode returns a cryptographically random 6-digit code.
//
// crypto/rand keeps codes unpredictable; math/rand would let an attacker
// who observes a few codes predict the next ones.
func GenerateCode() (string, error) {
	span := big.NewInt(otpMax - otpMin + 1)

	offset, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", otpMin+offset.Int64()), nil
}
