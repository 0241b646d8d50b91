// Copyright (c) 2026 Linkup. All rights reserved.

/*
Package auth implements the credential and session lifecycle.

It handles registration with email verification codes, login with bcrypt
password checks, and JWT session management with a single active refresh
token per account.

Architecture:

  - Service: Orchestrates business flows (Register, VerifyOTP, Login, Refresh).
  - ChallengeManager: Owns one-time-passcode issuance and validation.
  - Store: Abstracted persistence, provided by the account package.
  - Notifier: Injected mail delivery, never reached through ambient state.

Account state machine: accounts are created unverified, become active on a
successful OTP verification, and may be banned by administrative action.
Only active accounts hold sessions.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chanhlegend/linkup/internal/account"
	"github.com/chanhlegend/linkup/internal/platform/apperr"
	"github.com/chanhlegend/linkup/internal/platform/ctxutil"
	"github.com/chanhlegend/linkup/internal/platform/mail"
	"github.com/chanhlegend/linkup/internal/platform/sec"
	"github.com/chanhlegend/linkup/pkg/textutil"
	"github.com/chanhlegend/linkup/pkg/uuidv7"
)

// # Contracts & Types

// TokenIssuer defines the contract for issuing and verifying session tokens.
type TokenIssuer interface {
	// IssueTokenPair signs both an access and a refresh token for the identity.
	IssueTokenPair(accountID, email, role string) (*sec.TokenPair, error)

	// IssueAccessToken signs a short-lived access token only.
	IssueAccessToken(accountID, email, role string) (string, error)

	// VerifyRefreshToken checks a refresh token's signature and expiry.
	VerifyRefreshToken(tokenString string) (*sec.Claims, error)

	// AccessTTL reports the configured access-token lifetime.
	AccessTTL() time.Duration
}

// Service implements the session lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or account-state policy must be reviewed by the security team.
type Service struct {
	accounts   account.Store
	challenges *ChallengeManager
	tokens     TokenIssuer
	notifier   mail.Notifier
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accounts account.Store, challenges *ChallengeManager, tokens TokenIssuer, notifier mail.Notifier) *Service {
	return &Service{
		accounts:   accounts,
		challenges: challenges,
		tokens:     tokens,
		notifier:   notifier,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

/*
Register creates an unverified account and delivers a verification code.

Description: All-or-nothing enrollment. The account is created in the
unverified state and a one-time code is emailed to prove address ownership.
If delivery fails, the created account is removed again so the caller can
retry the whole registration.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *account.Account: Created account (sanitized)
  - error: Conflict (email taken), NOTIFICATION_FAILURE, or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*account.Account, error) {

	email := account.NormalizeEmail(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict error.
	// The unique index on the email column backstops this check under races.
	_, err := service.accounts.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new account. Time-sortable ID to prevent PG index fragmentation.
	created := &account.Account{
		ID:           uuidv7.New(),
		Email:        email,
		FullName:     textutil.Clean(input.FullName),
		PasswordHash: hashedPassword,
		Status:       account.StatusUnverified,
		Role:         account.RoleUser,
	}

	if err := service.accounts.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Issue the verification challenge
	code, err := service.challenges.Issue(ctx, created.ID)
	if err != nil {
		_ = service.accounts.Delete(ctx, created.ID)
		return nil, fmt.Errorf("auth_service_register_challenge_failed: %w", err)
	}

	// Deliver the code. Registration is all-or-nothing: if the user can
	// never receive the code, keeping the account would strand the email
	// address, so creation is compensated with a delete.
	if err := service.deliverCode(ctx, email, code); err != nil {
		_ = service.accounts.Delete(ctx, created.ID)
		return nil, NotificationFailure(err)
	}

	return created.Sanitized(), nil
}

/*
VerifyOTP confirms email ownership and activates the account.

Description: Validates the submitted code against the stored challenge,
then transitions the account to active and clears the challenge in a
single store operation (one-shot consumption).

Parameters:
  - ctx: context.Context
  - email: Account email
  - code: Submitted 6-digit code

Returns:
  - *account.Account: Activated account (sanitized)
  - error: NotFound, ErrInvalidOTP, or storage errors
*/
func (service *Service) VerifyOTP(ctx context.Context, email, code string) (*account.Account, error) {

	found, err := service.accounts.FindByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	// Check the code against the stored challenge
	if err := service.challenges.Validate(found, code); err != nil {
		return nil, err
	}

	// Activate and consume the challenge together, so the same code can
	// never validate twice.
	if err := service.accounts.Activate(ctx, found.ID); err != nil {
		return nil, fmt.Errorf("auth_service_activate_failed: %w", err)
	}

	found.Status = account.StatusActive
	found.OTPCode = nil
	found.OTPExpiresAt = nil

	return found.Sanitized(), nil
}

/*
ResendOTP re-issues and redelivers a verification challenge.

Description: Replaces any existing challenge with a fresh code regardless
of current account status; the previous code stops validating immediately.

Parameters:
  - ctx: context.Context
  - email: Account email

Returns:
  - error: NotFound, NOTIFICATION_FAILURE, or storage errors
*/
func (service *Service) ResendOTP(ctx context.Context, email string) error {

	found, err := service.accounts.FindByEmail(ctx, account.NormalizeEmail(email))
	if err != nil {
		return err
	}

	code, err := service.challenges.Issue(ctx, found.ID)
	if err != nil {
		return fmt.Errorf("auth_service_resend_failed: %w", err)
	}

	// No compensation here: the account already exists, the user simply
	// retries the resend if delivery fails.
	if err := service.deliverCode(ctx, found.Email, code); err != nil {
		return NotificationFailure(err)
	}

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult represents the outcome of a credential check.
//
// Exactly one of the two shapes is populated: a verification-required
// signal (unverified account, fresh code issued) or an established session.
type LoginResult struct {
	// VerificationRequired marks the guided-retry outcome for unverified
	// accounts. Email carries the address the fresh code was sent to.
	VerificationRequired bool
	Email                string

	// Tokens and Account are set on a fully established session.
	Tokens  *sec.TokenPair
	Account *account.Account
}

/*
Login validates credentials and establishes a session.

Description: Verifies the password with a constant-time bcrypt comparison,
enforces account-state policy, then issues a token pair. The refresh token
is persisted on the account, overwriting any prior one — earlier sessions
are revoked by that overwrite.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Session tokens, or a verification-required signal
  - error: NotFound, ErrInvalidCredentials, ErrBanned, or storage errors
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {

	found, err := service.accounts.FindByEmail(ctx, account.NormalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}

	// Verify password hash using bcrypt's constant-time comparison
	if !sec.CheckPasswordHash(input.Password, found.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Unverified accounts get a guided retry: re-issue the challenge and
	// signal the client to collect the code. This is not a hard failure.
	if found.Status == account.StatusUnverified {
		code, err := service.challenges.Issue(ctx, found.ID)
		if err != nil {
			return nil, fmt.Errorf("auth_service_login_challenge_failed: %w", err)
		}

		// Best-effort delivery; the client can always request a resend.
		if err := service.deliverCode(ctx, found.Email, code); err != nil {
			logger := ctxutil.GetLogger(ctx)
			logger.WarnContext(ctx, "login_otp_delivery_failed",
				slog.String("account_id", found.ID),
				slog.String("error", err.Error()),
			)
		}

		return &LoginResult{VerificationRequired: true, Email: found.Email}, nil
	}

	if found.Status == account.StatusBanned {
		return nil, account.ErrBanned
	}

	// Issue the session token pair
	pair, err := service.tokens.IssueTokenPair(found.ID, found.Email, string(found.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	// Persist the refresh token, revoking any earlier session. Last login
	// wins: two concurrent logins leave only the later refresh token valid.
	if err := service.accounts.SetRefreshToken(ctx, found.ID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_persist_failed: %w", err)
	}

	now := time.Now()
	if err := service.accounts.RecordLogin(ctx, found.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_record_login_failed: %w", err)
	}
	found.LastLogin = &now

	return &LoginResult{Tokens: pair, Account: found.Sanitized()}, nil
}

// # Session Management

/*
Refresh exchanges a valid refresh token for a new access token.

Description: The token must verify against the refresh secret AND exactly
match the pointer stored on the account — a token superseded by a later
login or cleared by logout no longer matches and is rejected. The refresh
token itself is not rotated.

Parameters:
  - ctx: context.Context
  - refreshToken: The long-lived token presented by the client

Returns:
  - string: A freshly signed access token
  - error: ErrMissingToken, sec.ErrInvalidToken, ErrNotActive, or storage errors
*/
func (service *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {

	if refreshToken == "" {
		return "", ErrMissingToken
	}

	// 1. Signature and expiry against the refresh secret
	claims, err := service.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	// 2. The account must still exist. A valid signature over a deleted
	// account is indistinguishable from a forged token to the caller.
	found, err := service.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		return "", sec.ErrInvalidToken
	}

	// 3. Exact-match against the stored pointer detects revoked tokens
	if found.RefreshToken == nil || *found.RefreshToken != refreshToken {
		return "", sec.ErrInvalidToken
	}

	// 4. Only active accounts hold sessions
	if err := account.AccessibleBy(found.Status); err != nil {
		return "", err
	}

	accessToken, err := service.tokens.IssueAccessToken(found.ID, found.Email, string(found.Role))
	if err != nil {
		return "", fmt.Errorf("auth_service_refresh_issue_failed: %w", err)
	}

	return accessToken, nil
}

/*
Logout revokes the account's active session.

Description: Clears the stored refresh token unconditionally. Logging out
twice, or logging out with no active session, succeeds (idempotent).

Parameters:
  - ctx: context.Context
  - accountID: The authenticated account

Returns:
  - error: Storage failures only
*/
func (service *Service) Logout(ctx context.Context, accountID string) error {

	if err := service.accounts.ClearRefreshToken(ctx, accountID); err != nil {
		// An already-deleted account has nothing left to revoke.
		if apperr.IsAppError(err) {
			return nil
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// AccessTTL reports the lifetime of issued access tokens, for transport
// layers that advertise expiry to clients.
func (service *Service) AccessTTL() time.Duration {
	return service.tokens.AccessTTL()
}

// # Helpers

// deliverCode sends the verification code email through the notifier.
func (service *Service) deliverCode(ctx context.Context, recipient, code string) error {
	body := fmt.Sprintf(
		"Your Linkup verification code is %s.\n\nIt expires in %d minutes. If you did not request this code, you can ignore this email.",
		code, int(OTPTTL.Minutes()),
	)
	return service.notifier.Send(ctx, recipient, VerificationSubject, body)
}
