// Package slug derives URL-safe identifiers from display names.
package slug

import "strings"

// Make lowercases the input and maps every run of characters outside
// [a-z0-9] to a single hyphen, with no leading or trailing hyphen.
// The derivation is deterministic; callers are responsible for rejecting
// collisions against already stored slugs.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = true
			continue
		}
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteRune(r)
	}

	return b.String()
}
