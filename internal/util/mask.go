package util

import "strings"

// MaskToken deja visibles los primeros 6 y los últimos 4 caracteres de un
// secreto para poder correlacionarlo en logs sin exponerlo.
func MaskToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) <= 12 {
		return "***"
	}
	return s[:6] + "…" + s[len(s)-4:]
}
