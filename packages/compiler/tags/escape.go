package tags

import (
	"regexp"
	"strings"

	"pcgo/packages/compiler/vars"
)

var singleQuoteEscapeStringRe = regexp.MustCompile(`'|\\|\n|\r|\$`)

// EscapeString escapes special characters in a string for a double quoted
// JavaScript string literal.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}

// Quote returns s as a double quoted JavaScript string literal.
func Quote(s string) string {
	return "\"" + EscapeString(s) + "\""
}

// EscapeIdentifier returns input usable as an object key. Inputs that are
// not legal identifiers, or all inputs when alwaysQuote is set, are single
// quoted.
func EscapeIdentifier(input string, escapeDollar bool, alwaysQuote bool) string {
	if input == "" {
		return ""
	}

	body := singleQuoteEscapeStringRe.ReplaceAllStringFunc(input, func(match string) string {
		switch match {
		case "$":
			if escapeDollar {
				return "\\$"
			}
			return "$"
		case "\n":
			return "\\n"
		case "\r":
			return "\\r"
		default:
			return "\\" + match
		}
	})

	if alwaysQuote || !vars.IsIdentifier(body) {
		return "'" + body + "'"
	}
	return body
}
