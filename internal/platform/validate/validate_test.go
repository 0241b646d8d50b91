// Copyright (c) 2026 Linkup. All rights reserved.

package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanhlegend/linkup/internal/platform/apperr"
	"github.com/chanhlegend/linkup/internal/platform/validate"
)

/*
TestValidator_Required verifies empty and whitespace-only values fail.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"present", "hello", false},
		{"empty", "", true},
		{"whitespace_only", "   \t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Required("field", tt.value).Err()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

/*
TestValidator_Lengths verifies MinLen and MaxLen count Unicode characters,
not bytes.
*/
func TestValidator_Lengths(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.MinLen("password", "Secret1", 6).Err())

	v = &validate.Validator{}
	assert.Error(t, v.MinLen("password", "short", 6).Err())

	v = &validate.Validator{}
	assert.Error(t, v.MaxLen("name", "abcdef", 5).Err())

	// 5 multi-byte runes are within a 5-character limit.
	v = &validate.Validator{}
	assert.NoError(t, v.MaxLen("name", "héllö", 5).Err())
}

/*
TestValidator_Email accepts RFC 5322 addresses and rejects malformed input.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"standard", "alice@example.com", false},
		{"subaddress", "alice+tag@example.com", false},
		{"missing_at", "alice.example.com", true},
		{"missing_domain", "alice@", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Email("email", tt.value).Err()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

/*
TestValidator_Digits covers the fixed-width numeric rule used for OTP codes.
*/
func TestValidator_Digits(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		n       int
		wantErr bool
	}{
		{"exact_six_digits", "123456", 6, false},
		{"too_short", "12345", 6, true},
		{"too_long", "1234567", 6, true},
		{"letters", "12a456", 6, true},
		{"unicode_digits", "１２３４５６", 6, true},
		{"empty", "", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.Digits("code", tt.value, tt.n).Err()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

/*
TestValidator_UUID accepts canonical UUID strings in either case.
*/
func TestValidator_UUID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"lowercase_v7", "0190a6e2-4f2b-7cc3-9d1e-8a44c2f0b111", false},
		{"uppercase", "0190A6E2-4F2B-7CC3-9D1E-8A44C2F0B111", false},
		{"missing_hyphens", "0190a6e24f2b7cc39d1e8a44c2f0b111", true},
		{"garbage", "not-a-uuid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.UUID("id", tt.value).Err()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

/*
TestValidator_OneOf restricts values to an allowed set.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	assert.NoError(t, v.OneOf("status", "active", "active", "banned").Err())

	v = &validate.Validator{}
	assert.Error(t, v.OneOf("status", "unverified", "active", "banned").Err())
}

/*
TestValidator_Chaining collects every failed rule into one VALIDATION_ERROR
with per-field details.
*/
func TestValidator_Chaining(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("email", "").
		MinLen("password", "abc", 6).
		Digits("code", "12", 6).
		Err()

	require.Error(t, err)

	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Len(t, appErr.Details, 3)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Custom applies a caller-supplied condition and message.
*/
func TestValidator_Custom(t *testing.T) {
	v := &validate.Validator{}
	err := v.Custom("content", true, "Post is too long").Err()

	var appErr *apperr.AppError
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "content", appErr.Details[0].Field)
	assert.Equal(t, "Post is too long", appErr.Details[0].Message)
}

/*
TestRequiredError builds a single-field validation error directly.
*/
func TestRequiredError(t *testing.T) {
	appErr := validate.RequiredError("refresh_token", "Refresh token is required")

	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "refresh_token", appErr.Details[0].Field)
}
