// Package email derives presentable fallbacks from email addresses for
// providers that return no display name.
package email

import (
	"strings"
	"unicode"
)

// DeriveDisplayName builds a display name from the local part of an address.
// "ada.lovelace@example.com" becomes "Ada Lovelace". Falls back to "User"
// when nothing usable remains.
func DeriveDisplayName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "User"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
