// Copyright (c) 2026 Linkup. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chanhlegend/linkup/pkg/pagination"
)

/*
TestFromRequest parses and clamps the page and limit query parameters.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"zero_page", "?page=0", 1, 20},
		{"negative_page", "?page=-2", 1, 20},
		{"limit_above_max", "?limit=500", 1, 20},
		{"non_numeric", "?page=abc&limit=xyz", 1, 20},
		{"max_limit", "?limit=100", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/accounts"+tt.query, nil)

			params := pagination.FromRequest(request)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestOffset derives the SQL offset from 1-indexed pages.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 20, pagination.Params{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 90, pagination.Params{Page: 10, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

/*
TestNewMeta computes total pages with ceiling division.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 20, 45)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 45, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 1, pagination.NewMeta(1, 20, 20).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 10).TotalPages)
}
