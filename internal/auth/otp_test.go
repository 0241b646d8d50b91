// Copyright (c) 2026 Linkup. All rights reserved.

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanhlegend/linkup/internal/account"
	"github.com/chanhlegend/linkup/internal/auth"
)

/*
TestGenerateCode verifies codes are always exactly 6 digits with no leading
zero, across many draws.
*/
func TestGenerateCode(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := auth.GenerateCode()
		require.NoError(t, err)

		assert.Len(t, code, auth.OTPLength)
		assert.Regexp(t, `^[1-9][0-9]{5}$`, code)
	}
}

/*
TestChallengeManager_Issue stores a fresh challenge with a future expiry and
replaces any existing one.
*/
func TestChallengeManager_Issue(t *testing.T) {
	store := newMemoryStore()
	manager := auth.NewChallengeManager(store)

	acct := &account.Account{
		ID:     "acct-1",
		Email:  "alice@example.com",
		Status: account.StatusUnverified,
	}
	require.NoError(t, store.Create(context.Background(), acct))

	code, err := manager.Issue(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, code)

	stored, err := store.FindByID(context.Background(), acct.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OTPCode)
	require.NotNil(t, stored.OTPExpiresAt)
	assert.Equal(t, code, *stored.OTPCode)

	// The expiry lands around now+10m.
	remaining := time.Until(*stored.OTPExpiresAt)
	assert.Greater(t, remaining, 9*time.Minute)
	assert.LessOrEqual(t, remaining, auth.OTPTTL)

	// A second issue replaces the first challenge.
	secondCode, err := manager.Issue(context.Background(), acct.ID)
	require.NoError(t, err)

	stored, err = store.FindByID(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, secondCode, *stored.OTPCode)
}

/*
TestChallengeManager_Issue_UnknownAccount surfaces the store failure.
*/
func TestChallengeManager_Issue_UnknownAccount(t *testing.T) {
	manager := auth.NewChallengeManager(newMemoryStore())

	_, err := manager.Issue(context.Background(), "no-such-account")
	assert.Error(t, err)
}

/*
TestChallengeManager_Validate covers the uniform rejection contract: no
challenge, mismatch, and expiry all yield the same ErrInvalidOTP.
*/
func TestChallengeManager_Validate(t *testing.T) {
	manager := auth.NewChallengeManager(newMemoryStore())

	code := "123456"
	future := time.Now().Add(5 * time.Minute)
	past := time.Now().Add(-time.Minute)

	tests := []struct {
		name      string
		acct      *account.Account
		submitted string
		wantErr   error
	}{
		{
			name:      "no_challenge_on_record",
			acct:      &account.Account{},
			submitted: "123456",
			wantErr:   auth.ErrInvalidOTP,
		},
		{
			name:      "code_mismatch",
			acct:      &account.Account{OTPCode: &code, OTPExpiresAt: &future},
			submitted: "654321",
			wantErr:   auth.ErrInvalidOTP,
		},
		{
			name:      "expired_challenge",
			acct:      &account.Account{OTPCode: &code, OTPExpiresAt: &past},
			submitted: "123456",
			wantErr:   auth.ErrInvalidOTP,
		},
		{
			name:      "valid_challenge",
			acct:      &account.Account{OTPCode: &code, OTPExpiresAt: &future},
			submitted: "123456",
			wantErr:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := manager.Validate(tt.acct, tt.submitted)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
