// Package utils provides shared utilities for text and logging.
package utils

import (
	"strings"
	"unicode"
)

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// CountAlphaWords returns the number of whitespace-separated words in s
// that consist entirely of letters. Numbers, punctuation runs, and mixed
// tokens (common in garbled extractions of image-only pages) don't count.
func CountAlphaWords(s string) int {
	n := 0
	for _, w := range strings.Fields(s) {
		if isAlpha(w) {
			n++
		}
	}
	return n
}

func isAlpha(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(w) > 0
}
