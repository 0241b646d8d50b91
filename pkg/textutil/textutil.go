// Copyright (c) 2026 Linkup. All rights reserved.

// Package textutil normalizes user-supplied display text.
//
// # Usage
//
// Names and post content arrive from many client platforms with mixed
// Unicode composition forms and stray whitespace. This package canonicalizes
// them so that equality checks and display behave consistently.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean canonicalizes a display string.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC (composes decomposed sequences: e + combining acute → é).
// 2. Collapses internal whitespace runs into single spaces.
// 3. Trims leading and trailing whitespace.
func Clean(s string) string {
	// 1. Canonical composition so visually identical names compare equal
	result := norm.NFC.String(s)

	// 2. Collapse whitespace runs
	result = strings.Join(strings.Fields(result), " ")

	return result
}

// Truncate shortens a string to at most max runes, appending an ellipsis
// when truncation occurred. Used for cached feed previews.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
