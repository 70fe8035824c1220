package format

import (
	"strings"
	"unicode"
)

// ShellQuote wraps s in single quotes so a POSIX shell reads it back
// verbatim. Embedded single quotes become '\''.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// EnvName turns an output key into a shell variable name: GP_ plus the key
// upper-cased, with anything outside [A-Z0-9_] replaced by '_'.
func EnvName(key string) string {
	var b strings.Builder
	b.WriteString("GP_")
	for _, r := range key {
		r = unicode.ToUpper(r)
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ShellAssignment renders key and value as one eval-safe assignment.
func ShellAssignment(key, value string) string {
	return EnvName(key) + "=" + ShellQuote(value)
}
