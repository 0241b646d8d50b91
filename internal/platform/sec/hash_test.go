// Copyright (c) 2026 Linkup. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chanhlegend/linkup/internal/platform/sec"
)

/*
TestHashPassword verifies hashing produces a verifiable, non-reversible hash.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("Secret1")
	require.NoError(t, err)

	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Secret1", hash)

	// bcrypt salts: hashing the same input twice yields different hashes.
	secondHash, err := sec.HashPassword("Secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, secondHash)
}

/*
TestCheckPasswordHash verifies the match/mismatch contract: a mismatch is a
negative result, never an error.
*/
func TestCheckPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("Secret1")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("Secret1", hash))
	assert.False(t, sec.CheckPasswordHash("secret1", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
	assert.False(t, sec.CheckPasswordHash("Secret1", "not-a-hash"))
}
