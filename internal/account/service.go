// Copyright (c) 2026 Linkup. All rights reserved.

package account

import (
	"context"
	"fmt"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
	"github.com/chanhlegend/linkup/pkg/pagination"
)

// # Account Administration

// Service implements account read and administration use cases.
//
// Session-lifecycle writes (activation, refresh-token pointers) belong to
// the auth service; this service only covers profile reads and the
// administrative status transitions.
type Service struct {
	accounts Store
}

// NewService constructs a new [Service] over the given store.
func NewService(accounts Store) *Service {
	return &Service{accounts: accounts}
}

/*
GetByID loads an account for display.

Returns:
  - *Account: Sanitized account
  - error: NOT_FOUND or storage failures
*/
func (service *Service) GetByID(ctx context.Context, accountID string) (*Account, error) {
	found, err := service.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return found.Sanitized(), nil
}

/*
List returns a page of accounts, newest first.

Parameters:
  - ctx: context.Context
  - params: Page/limit from the request query string

Returns:
  - []*Account: Sanitized page of accounts
  - pagination.Meta: Total counts for the response envelope
  - error: Storage failures
*/
func (service *Service) List(ctx context.Context, params pagination.Params) ([]*Account, pagination.Meta, error) {
	accounts, total, err := service.accounts.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	sanitized := make([]*Account, 0, len(accounts))
	for _, acct := range accounts {
		sanitized = append(sanitized, acct.Sanitized())
	}

	return sanitized, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
SetStatus applies an administrative lifecycle transition.

Description: Bans or reinstates an account. Banning also revokes the
account's active session so the change takes effect immediately, not at
access-token expiry.

Parameters:
  - ctx: context.Context
  - actorID: The administrator performing the change
  - accountID: The target account
  - status: The new lifecycle status

Returns:
  - *Account: Updated, sanitized account
  - error: NOT_FOUND, validation, or storage failures
*/
func (service *Service) SetStatus(ctx context.Context, actorID, accountID string, status Status) (*Account, error) {

	// Administrators cannot ban themselves; that would orphan the admin role.
	if actorID == accountID {
		return nil, apperr.Forbidden("Administrators cannot change their own status")
	}

	found, err := service.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := service.accounts.UpdateStatus(ctx, found.ID, status); err != nil {
		return nil, fmt.Errorf("account_service_set_status_failed: %w", err)
	}

	// A ban must invalidate the live session immediately.
	if status == StatusBanned {
		if err := service.accounts.ClearRefreshToken(ctx, found.ID); err != nil {
			return nil, fmt.Errorf("account_service_revoke_failed: %w", err)
		}
	}

	found.Status = status
	return found.Sanitized(), nil
}
