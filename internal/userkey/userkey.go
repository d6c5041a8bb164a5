// Package userkey maps user emails to filesystem-safe storage keys.
package userkey

import "strings"

// Resolve converts an email address into the key that addresses the user's
// document on disk. The email is lower-cased first so lookups are
// case-insensitive, then "@" and "." are replaced with substitutes that
// cannot occur in the local or domain part, keeping the mapping injective.
//
// Resolve is pure: no I/O, no errors.
func Resolve(email string) string {
	key := strings.ToLower(strings.TrimSpace(email))
	key = strings.ReplaceAll(key, "@", "_at_")
	key = strings.ReplaceAll(key, ".", "_dot_")

	return key
}
