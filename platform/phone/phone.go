// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

const (
	minDigits = 7
	maxDigits = 15 // E.164 practical maximum
)

// Valid reports whether the input is a plausible phone number: after dropping
// common separators (spaces, hyphens, dots, parentheses) and an optional
// leading "+", the remainder must be 7-15 digits.
func Valid(input string) bool {
	digits := stripSeparators(input)
	digits = strings.TrimPrefix(digits, "+")
	if len(digits) < minDigits || len(digits) > maxDigits {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

func stripSeparators(input string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(input) {
		switch r {
		case ' ', '-', '.', '(', ')':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
