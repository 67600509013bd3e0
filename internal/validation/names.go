// Package validation contiene reglas de formato para nombres de usuario y permisos.
package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// MaxUsernameLen es el largo máximo (en runas) de un username.
const MaxUsernameLen = 64

// Username rules:
// - Largo 1..64 runas.
// - Sin espacios ni caracteres de control.
// Cualquier otro carácter (incluido HTML) se acepta tal cual.
func ValidUsername(name string) bool {
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxUsernameLen || !utf8.ValidString(name) {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// Permission name rules:
// - Lowercase only.
// - Start and end with [a-z0-9].
// - Middle chars may include [a-z0-9:_.-].
// - Length 1..64.
//
// Examples valid: user:read, user:admin, a
// Examples invalid: :lead, trail:, BAD, "bad space", "".
var permissionRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9:_\.-]{0,62}[a-z0-9])?$`)

// ValidPermission returns true if the provided permission matches the allowed pattern.
func ValidPermission(name string) bool {
	return permissionRe.MatchString(name)
}
