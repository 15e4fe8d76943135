// Package util provides common utility functions used across the codebase.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// Safe for rendering argv elements in copy-pasteable command lines.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// NeedsQuoting reports whether an argv element would be misread by a shell
// if pasted verbatim. Empty strings always need quoting so they stay visible.
func NeedsQuoting(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n'\"\\$`&|;<>(){}[]*?~#")
}

// QuoteCommandLine renders an argv slice as a single shell-safe command line.
// Elements that parse cleanly are left bare so the output stays readable.
func QuoteCommandLine(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, a := range argv {
		if NeedsQuoting(a) {
			parts = append(parts, ShellQuote(a))
		} else {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}
