// Copyright (c) 2026 Linkup. All rights reserved.

// PostgreSQL implementation of the credential store.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique-constraint violations) are
// mapped to domain-friendly [apperr.AppError] values to avoid leaking storage
// implementation details.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
)

// accountColumns is the canonical SELECT column list for account rows.
const accountColumns = `
	id, email, fullname, passwordhash, status, role,
	otpcode, otpexpiresat, refreshtoken, lastlogin, createdat, updatedat`

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL implementation of the credential store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Description: Initializes timestamps and relies on the unique index on email
to enforce the global uniqueness invariant under concurrent registration.

Returns:
  - error: CONFLICT on duplicate email, or execution errors
*/
func (store *PostgresStore) Create(ctx context.Context, acct *Account) error {
	const query = `
		INSERT INTO users.account (
			id, email, fullname, passwordhash, status, role,
			otpcode, otpexpiresat, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = now
	}
	acct.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		acct.ID,
		acct.Email,
		acct.FullName,
		acct.PasswordHash,
		acct.Status,
		acct.Role,
		acct.OTPCode,
		acct.OTPExpiresAt,
		acct.CreatedAt,
		acct.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_account_store_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves an account record by its primary key.

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`
	return store.findOne(ctx, query, id)
}

/*
FindByEmail retrieves an account record by its unique email address.

Description: Callers must normalize the email via [NormalizeEmail] first;
the store performs exact matching on the stored canonical form.

Returns:
  - *Account: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (store *PostgresStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM users.account WHERE email = $1`
	return store.findOne(ctx, query, email)
}

// findOne runs a single-row account query and maps pgx.ErrNoRows.
func (store *PostgresStore) findOne(ctx context.Context, query string, arg any) (*Account, error) {
	acct := &Account{}
	err := store.pool.QueryRow(ctx, query, arg).Scan(
		&acct.ID,
		&acct.Email,
		&acct.FullName,
		&acct.PasswordHash,
		&acct.Status,
		&acct.Role,
		&acct.OTPCode,
		&acct.OTPExpiresAt,
		&acct.RefreshToken,
		&acct.LastLogin,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_store_find_failed: %w", err)
	}

	return acct, nil
}

/*
Delete permanently removes an account row.

Description: Hard delete, used only as compensation when registration fails
to deliver the OTP email. Deleting a missing row is not an error.
*/
func (store *PostgresStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users.account WHERE id = $1`
	if _, err := store.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("postgres_account_store_delete_failed: %w", err)
	}
	return nil
}

/*
SetChallenge stores a fresh OTP challenge, superseding any previous code.
*/
func (store *PostgresStore) SetChallenge(ctx context.Context, id, code string, expiresAt time.Time) error {
	const query = `
		UPDATE users.account
		SET otpcode = $2, otpexpiresat = $3, updatedat = $4
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, id, code, expiresAt, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_store_set_challenge_failed: %w", err)
	}
	return nil
}

/*
ClearChallenge removes the pending OTP challenge without touching status.
*/
func (store *PostgresStore) ClearChallenge(ctx context.Context, id string) error {
	const query = `
		UPDATE users.account
		SET otpcode = NULL, otpexpiresat = NULL, updatedat = $2
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_store_clear_challenge_failed: %w", err)
	}
	return nil
}

/*
Activate transitions the account to active and consumes the OTP challenge
in a single statement, so a verified code can never validate twice.
*/
func (store *PostgresStore) Activate(ctx context.Context, id string) error {
	const query = `
		UPDATE users.account
		SET status = $2, otpcode = NULL, otpexpiresat = NULL, updatedat = $3
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, id, StatusActive, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_store_activate_failed: %w", err)
	}
	return nil
}

/*
SetRefreshToken overwrites the refresh-token pointer, revoking the prior one.
*/
func (store *PostgresStore) SetRefreshToken(ctx context.Context, id, token string) error {
	const query = `
		UPDATE users.account
		SET refreshtoken = $2, updatedat = $3
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, id, token, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_store_set_refresh_failed: %w", err)
	}
	return nil
}

/*
ClearRefreshToken removes the refresh-token pointer. Clearing an already
cleared pointer succeeds (logout is idempotent).
*/
func (store *PostgresStore) ClearRefreshToken(ctx context.Context, id string) error {
	const query = `
		UPDATE users.account
		SET refreshtoken = NULL, updatedat = $2
		WHERE id = $1`

	if _, err := store.pool.Exec(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_store_clear_refresh_failed: %w", err)
	}
	return nil
}

/*
RecordLogin stamps the last successful login time.
*/
func (store *PostgresStore) RecordLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users.account SET lastlogin = $2, updatedat = $3 WHERE id = $1`
	if _, err := store.pool.Exec(ctx, query, id, at, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_store_record_login_failed: %w", err)
	}
	return nil
}

/*
UpdateStatus sets the lifecycle status (ban/unban by administrators).
*/
func (store *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	const query = `UPDATE users.account SET status = $2, updatedat = $3 WHERE id = $1`
	if _, err := store.pool.Exec(ctx, query, id, status, time.Now()); err != nil {
		return fmt.Errorf("postgres_account_store_update_status_failed: %w", err)
	}
	return nil
}

/*
List returns a page of accounts (newest first) and the total account count.
*/
func (store *PostgresStore) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	const countQuery = `SELECT COUNT(*) FROM users.account`

	var total int
	if err := store.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_store_count_failed: %w", err)
	}

	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := store.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_store_list_failed: %w", err)
	}
	defer rows.Close()

	accounts := make([]*Account, 0, limit)
	for rows.Next() {
		acct := &Account{}
		if err := rows.Scan(
			&acct.ID,
			&acct.Email,
			&acct.FullName,
			&acct.PasswordHash,
			&acct.Status,
			&acct.Role,
			&acct.OTPCode,
			&acct.OTPExpiresAt,
			&acct.RefreshToken,
			&acct.LastLogin,
			&acct.CreatedAt,
			&acct.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_store_scan_failed: %w", err)
		}
		accounts = append(accounts, acct)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_store_rows_failed: %w", err)
	}

	return accounts, total, nil
}
