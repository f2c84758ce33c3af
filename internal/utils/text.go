package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Truncate returns a truncated string with "..." if it exceeds maxLen.
// This function is Unicode-safe, counting runes instead of bytes.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Clip keeps the first n runes of s and appends "..." only when something was cut.
func Clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// ToTitle upper-cases the first letter of every word: "legal review" -> "Legal Review".
// A Caser keeps state between calls, so each call builds its own.
func ToTitle(s string) string {
	return cases.Title(language.English).String(s)
}

// SnakeToTitle renders a table key such as "client_approval" as "Client Approval".
func SnakeToTitle(s string) string {
	return ToTitle(strings.ReplaceAll(s, "_", " "))
}
