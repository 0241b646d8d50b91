// Copyright (c) 2026 Linkup. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanhlegend/linkup/internal/account"
	"github.com/chanhlegend/linkup/internal/auth"
	"github.com/chanhlegend/linkup/internal/platform/apperr"
	"github.com/chanhlegend/linkup/internal/platform/sec"
)

// # Test Doubles

// memoryStore is an in-memory [account.Store] for orchestrator tests.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: make(map[string]*account.Account)}
}

func (s *memoryStore) Create(_ context.Context, acct *account.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Email == acct.Email {
			return apperr.Conflict("Email is already registered")
		}
	}

	clone := *acct
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	s.accounts[acct.ID] = &clone
	return nil
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	clone := *acct
	return &clone, nil
}

func (s *memoryStore) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.Email == email {
			clone := *acct
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, id)
	return nil
}

func (s *memoryStore) SetChallenge(_ context.Context, id, code string, expiresAt time.Time) error {
	return s.update(id, func(acct *account.Account) {
		acct.OTPCode = &code
		acct.OTPExpiresAt = &expiresAt
	})
}

func (s *memoryStore) ClearChallenge(_ context.Context, id string) error {
	return s.update(id, func(acct *account.Account) {
		acct.OTPCode = nil
		acct.OTPExpiresAt = nil
	})
}

func (s *memoryStore) Activate(_ context.Context, id string) error {
	return s.update(id, func(acct *account.Account) {
		acct.Status = account.StatusActive
		acct.OTPCode = nil
		acct.OTPExpiresAt = nil
	})
}

func (s *memoryStore) SetRefreshToken(_ context.Context, id, token string) error {
	return s.update(id, func(acct *account.Account) {
		acct.RefreshToken = &token
	})
}

func (s *memoryStore) ClearRefreshToken(_ context.Context, id string) error {
	return s.update(id, func(acct *account.Account) {
		acct.RefreshToken = nil
	})
}

func (s *memoryStore) RecordLogin(_ context.Context, id string, at time.Time) error {
	return s.update(id, func(acct *account.Account) {
		acct.LastLogin = &at
	})
}

func (s *memoryStore) UpdateStatus(_ context.Context, id string, status account.Status) error {
	return s.update(id, func(acct *account.Account) {
		acct.Status = status
	})
}

func (s *memoryStore) List(_ context.Context, limit, offset int) ([]*account.Account, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*account.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		clone := *acct
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *memoryStore) update(id string, apply func(*account.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	apply(acct)
	acct.UpdatedAt = time.Now()
	return nil
}

// expireChallenge backdates the stored challenge for expiry tests.
func (s *memoryStore) expireChallenge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct, ok := s.accounts[id]; ok && acct.OTPExpiresAt != nil {
		past := time.Now().Add(-time.Minute)
		acct.OTPExpiresAt = &past
	}
}

// recordingNotifier captures sent mail and can be switched to fail.
type recordingNotifier struct {
	mu     sync.Mutex
	sent   []string // bodies, in order
	failed bool
}

func (n *recordingNotifier) Send(_ context.Context, _, _, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.failed {
		return errors.New("smtp relay unreachable")
	}
	n.sent = append(n.sent, body)
	return nil
}

var codePattern = regexp.MustCompile(`[0-9]{6}`)

// lastCode extracts the OTP code from the most recently delivered mail.
func (n *recordingNotifier) lastCode(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()

	require.NotEmpty(t, n.sent, "no mail was delivered")
	code := codePattern.FindString(n.sent[len(n.sent)-1])
	require.Len(t, code, auth.OTPLength)
	return code
}

func (n *recordingNotifier) deliveryCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// # Fixture

type fixture struct {
	store    *memoryStore
	notifier *recordingNotifier
	service  *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService(
		"access-secret-for-tests", "refresh-secret-for-tests",
		15*time.Minute, 7*24*time.Hour, "linkup.test",
	)
	require.NoError(t, err)

	store := newMemoryStore()
	notifier := &recordingNotifier{}
	challenges := auth.NewChallengeManager(store)

	return &fixture{
		store:    store,
		notifier: notifier,
		service:  auth.NewService(store, challenges, tokens, notifier),
	}
}

func (f *fixture) register(t *testing.T, email, password string) *account.Account {
	t.Helper()

	created, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		FullName: "Test Member",
	})
	require.NoError(t, err)
	return created
}

// # Registration

/*
TestRegister_CreatesUnverifiedAccountWithChallenge covers the happy path:
the account starts unverified and a 6-digit challenge with a future expiry
is stored and delivered.
*/
func TestRegister_CreatesUnverifiedAccountWithChallenge(t *testing.T) {
	f := newFixture(t)

	created := f.register(t, "alice@example.com", "Secret1")

	assert.Equal(t, account.StatusUnverified, created.Status)
	assert.Equal(t, account.RoleUser, created.Role)
	assert.Empty(t, created.PasswordHash, "sanitized result must not carry the hash")
	assert.Nil(t, created.OTPCode, "sanitized result must not carry the challenge")

	// The stored row carries the challenge.
	stored, err := f.store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.OTPCode)
	require.NotNil(t, stored.OTPExpiresAt)
	assert.Regexp(t, `^[0-9]{6}$`, *stored.OTPCode)
	assert.True(t, stored.OTPExpiresAt.After(time.Now()))

	// The delivered mail carries the same code.
	assert.Equal(t, *stored.OTPCode, f.notifier.lastCode(t))
}

/*
TestRegister_NormalizesEmail stores the canonical lowercase form.
*/
func TestRegister_NormalizesEmail(t *testing.T) {
	f := newFixture(t)

	created := f.register(t, "  Alice@Example.COM ", "Secret1")
	assert.Equal(t, "alice@example.com", created.Email)
}

/*
TestRegister_DuplicateEmail rejects a second registration for the same
address with a conflict.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "ALICE@example.com",
		Password: "Other2",
		FullName: "Imposter",
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

/*
TestRegister_RollsBackOnDeliveryFailure verifies the compensation path: if
the verification mail cannot be sent, the account must not exist afterward.
*/
func TestRegister_RollsBackOnDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.failed = true

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    "alice@example.com",
		Password: "Secret1",
		FullName: "Alice",
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOTIFICATION_FAILURE", appErr.Code)

	// Rollback: the address is free again.
	_, err = f.store.FindByEmail(context.Background(), "alice@example.com")
	assert.NotNil(t, apperr.As(err))
}

// # Verification

/*
TestVerifyOTP_Lifecycle covers mismatch, success, and one-shot consumption:
the same code never validates twice.
*/
func TestVerifyOTP_Lifecycle(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")
	code := f.notifier.lastCode(t)

	// Wrong code fails.
	_, err := f.service.VerifyOTP(context.Background(), "alice@example.com", "000000")
	assert.ErrorIs(t, err, auth.ErrInvalidOTP)

	// Right code activates.
	verified, err := f.service.VerifyOTP(context.Background(), "alice@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, verified.Status)

	// One-shot: the consumed code no longer validates.
	_, err = f.service.VerifyOTP(context.Background(), "alice@example.com", code)
	assert.ErrorIs(t, err, auth.ErrInvalidOTP)
}

/*
TestVerifyOTP_Expired rejects a correct code past its expiry.
*/
func TestVerifyOTP_Expired(t *testing.T) {
	f := newFixture(t)
	created := f.register(t, "alice@example.com", "Secret1")
	code := f.notifier.lastCode(t)

	f.store.expireChallenge(created.ID)

	_, err := f.service.VerifyOTP(context.Background(), "alice@example.com", code)
	assert.ErrorIs(t, err, auth.ErrInvalidOTP)
}

/*
TestVerifyOTP_UnknownAccount fails with not-found.
*/
func TestVerifyOTP_UnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.VerifyOTP(context.Background(), "ghost@example.com", "123456")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

/*
TestResendOTP_ReplacesChallenge confirms the old code stops validating the
moment a new one is issued.
*/
func TestResendOTP_ReplacesChallenge(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")
	firstCode := f.notifier.lastCode(t)

	require.NoError(t, f.service.ResendOTP(context.Background(), "alice@example.com"))
	secondCode := f.notifier.lastCode(t)

	if firstCode != secondCode {
		_, err := f.service.VerifyOTP(context.Background(), "alice@example.com", firstCode)
		assert.ErrorIs(t, err, auth.ErrInvalidOTP)
	}

	_, err := f.service.VerifyOTP(context.Background(), "alice@example.com", secondCode)
	assert.NoError(t, err)
}

// # Login

func (f *fixture) activate(t *testing.T, email string) {
	t.Helper()
	code := f.notifier.lastCode(t)
	_, err := f.service.VerifyOTP(context.Background(), email, code)
	require.NoError(t, err)
}

/*
TestLogin_Success issues a token pair, stamps lastLogin, and persists the
refresh-token pointer on the account.
*/
func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	created := f.register(t, "alice@example.com", "Secret1")
	f.activate(t, "alice@example.com")

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Secret1",
	})
	require.NoError(t, err)

	assert.False(t, result.VerificationRequired)
	require.NotNil(t, result.Tokens)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	require.NotNil(t, result.Account)
	assert.Empty(t, result.Account.PasswordHash)
	assert.NotNil(t, result.Account.LastLogin)

	stored, err := f.store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, result.Tokens.RefreshToken, *stored.RefreshToken)
}

/*
TestLogin_WrongPassword fails with invalid credentials, not not-found.
*/
func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")
	f.activate(t, "alice@example.com")

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

/*
TestLogin_UnverifiedRequiresVerification never returns tokens for an
unverified account: it re-issues a challenge and signals guided retry.
*/
func TestLogin_UnverifiedRequiresVerification(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")
	deliveriesBefore := f.notifier.deliveryCount()

	result, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Secret1",
	})
	require.NoError(t, err)

	assert.True(t, result.VerificationRequired)
	assert.Equal(t, "alice@example.com", result.Email)
	assert.Nil(t, result.Tokens)

	// A fresh code went out.
	assert.Equal(t, deliveriesBefore+1, f.notifier.deliveryCount())

	// And it validates.
	_, err = f.service.VerifyOTP(context.Background(), "alice@example.com", f.notifier.lastCode(t))
	assert.NoError(t, err)
}

/*
TestLogin_Banned always fails with the ban error and never issues tokens.
*/
func TestLogin_Banned(t *testing.T) {
	f := newFixture(t)
	created := f.register(t, "alice@example.com", "Secret1")
	f.activate(t, "alice@example.com")
	require.NoError(t, f.store.UpdateStatus(context.Background(), created.ID, account.StatusBanned))

	_, err := f.service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "Secret1",
	})
	assert.ErrorIs(t, err, account.ErrBanned)
}

// # Refresh & Logout

func (f *fixture) login(t *testing.T, email, password string) *auth.LoginResult {
	t.Helper()
	result, err := f.service.Login(context.Background(), auth.LoginInput{Email: email, Password: password})
	require.NoError(t, err)
	require.NotNil(t, result.Tokens)
	return result
}

/*
TestRefresh_Lifecycle covers the single-active-token policy: the latest
login's refresh token works, a superseded one fails, and logout kills the
current one.
*/
func TestRefresh_Lifecycle(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")
	f.activate(t, "alice@example.com")

	first := f.login(t, "alice@example.com", "Secret1")

	// The current refresh token yields a new access token.
	accessToken, err := f.service.Refresh(context.Background(), first.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	// A second login supersedes the first session.
	second := f.login(t, "alice@example.com", "Secret1")

	if first.Tokens.RefreshToken != second.Tokens.RefreshToken {
		_, err = f.service.Refresh(context.Background(), first.Tokens.RefreshToken)
		assert.ErrorIs(t, err, sec.ErrInvalidToken)
	}

	_, err = f.service.Refresh(context.Background(), second.Tokens.RefreshToken)
	assert.NoError(t, err)

	// Logout revokes the current token.
	require.NoError(t, f.service.Logout(context.Background(), second.Account.ID))
	_, err = f.service.Refresh(context.Background(), second.Tokens.RefreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestRefresh_MissingToken fails fast on an empty token.
*/
func TestRefresh_MissingToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrMissingToken)
}

/*
TestRefresh_BannedAccount rejects refresh for a banned account even when
the token itself is still valid.
*/
func TestRefresh_BannedAccount(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")
	f.activate(t, "alice@example.com")
	session := f.login(t, "alice@example.com", "Secret1")

	require.NoError(t, f.store.UpdateStatus(context.Background(), session.Account.ID, account.StatusBanned))

	_, err := f.service.Refresh(context.Background(), session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, account.ErrBanned)
}

/*
TestLogout_Idempotent succeeds twice in a row and for unknown accounts.
*/
func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "Secret1")
	f.activate(t, "alice@example.com")
	session := f.login(t, "alice@example.com", "Secret1")

	assert.NoError(t, f.service.Logout(context.Background(), session.Account.ID))
	assert.NoError(t, f.service.Logout(context.Background(), session.Account.ID))
	assert.NoError(t, f.service.Logout(context.Background(), "no-such-account"))
}

// # End-to-End Scenario

/*
TestScenario_FullLifecycle walks the canonical journey: register, fail one
verify, verify, log in, refresh.
*/
func TestScenario_FullLifecycle(t *testing.T) {
	f := newFixture(t)

	created := f.register(t, "alice@example.com", "Secret1")
	assert.Equal(t, account.StatusUnverified, created.Status)
	code := f.notifier.lastCode(t)

	_, err := f.service.VerifyOTP(context.Background(), "alice@example.com", "000000")
	assert.ErrorIs(t, err, auth.ErrInvalidOTP)

	verified, err := f.service.VerifyOTP(context.Background(), "alice@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, verified.Status)

	session := f.login(t, "alice@example.com", "Secret1")

	accessToken, err := f.service.Refresh(context.Background(), session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}
