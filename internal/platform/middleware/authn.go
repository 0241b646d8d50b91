// Copyright (c) 2026 Linkup. All rights reserved.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chanhlegend/linkup/internal/account"
	"github.com/chanhlegend/linkup/internal/platform/apperr"
	"github.com/chanhlegend/linkup/internal/platform/ctxutil"
	"github.com/chanhlegend/linkup/internal/platform/respond"
	"github.com/chanhlegend/linkup/internal/platform/sec"
)

// # Authentication Gate

// TokenVerifier checks access-token signatures and expiry.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*sec.Claims, error)
}

// AccountSource loads accounts for principal resolution.
//
// The gate re-reads the account on every request so that status changes
// (a ban, for example) take effect immediately, not at token expiry.
type AccountSource interface {
	FindByID(ctx context.Context, accountID string) (*account.Account, error)
}

/*
Gate authenticates requests from a Bearer access token.

It resolves the token into a live account record and attaches a sanitized
copy to the request context as the principal. Three flavors are exposed:

  - RequireAuth: rejects the request unless a valid, active principal resolves.
  - OptionalAuth: attaches the principal when it resolves, proceeds anonymously otherwise.
  - RequireAdmin: layered on top of RequireAuth, additionally checks the admin role.
*/
type Gate struct {
	tokens   TokenVerifier
	accounts AccountSource
}

/*
NewGate creates the authentication gate.

Parameters:
  - tokens: Verifier for access-token signatures (typically *sec.TokenService)
  - accounts: Store used to resolve token subjects into live accounts
*/
func NewGate(tokens TokenVerifier, accounts AccountSource) *Gate {
	return &Gate{tokens: tokens, accounts: accounts}
}

// RequireAuth rejects unauthenticated requests.
//
// A missing or malformed header yields 401 UNAUTHORIZED, a bad signature or
// expired token yields 401 INVALID_TOKEN, and a non-active account yields
// the matching 403 status error.
func (gate *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		principal, err := gate.resolvePrincipal(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		ctx := ctxutil.WithPrincipal(request.Context(), principal)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// OptionalAuth attaches the principal when the request carries a valid token,
// and proceeds anonymously on any authentication failure.
func (gate *Gate) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		principal, err := gate.resolvePrincipal(request)
		if err != nil {
			// Anonymous access is fine here; note it for debugging only.
			logger := ctxutil.GetLogger(request.Context())
			logger.DebugContext(request.Context(), "optional_auth_anonymous",
				slog.String("reason", err.Error()),
			)
			next.ServeHTTP(writer, request)
			return
		}

		ctx := ctxutil.WithPrincipal(request.Context(), principal)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose principal does not hold the admin role.
//
// It must be mounted after RequireAuth in the chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		if !principal.IsAdmin() {
			respond.Error(writer, request, apperr.Forbidden("Admin privileges required"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

/*
resolvePrincipal turns the Authorization header into a sanitized account.

Steps:
 1. Extract the Bearer token from the Authorization header.
 2. Verify the token signature and expiry against the access secret.
 3. Load the account referenced by the token subject.
 4. Reject tokens whose account is banned or not yet verified.

Returns:
  - *account.Account: Sanitized account (secret fields zeroed)
  - error: An apperr taxonomy error describing the failure
*/
func (gate *Gate) resolvePrincipal(request *http.Request) (*account.Account, error) {

	// 1. Extract the raw token from the header
	tokenString := sec.ExtractBearer(request.Header.Get("Authorization"))
	if tokenString == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	// 2. Verify the signature and expiry
	claims, err := gate.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 3. Resolve the live account record
	found, err := gate.accounts.FindByID(request.Context(), claims.AccountID)
	if err != nil {
		if apperr.IsAppError(err) {
			// A valid token for a deleted account is an authentication failure,
			// not a resource lookup failure.
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	// 4. Enforce account status
	if err := account.AccessibleBy(found.Status); err != nil {
		return nil, err
	}

	return found.Sanitized(), nil
}
