package application

import (
	"strings"
	"unicode"
)

const maxPostIDLength = 30

// DerivePostID builds the URL identifier of a post from its title.
// The transform is lossy and must stay stable: published URLs depend on it.
//
//	lowercase -> drop everything outside [a-z0-9\s] -> whitespace runs to "-" ->
//	first 30 characters -> trim hyphens at either end
func DerivePostID(title string) string {
	var b strings.Builder
	pendingSpace := false

	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSpace {
				b.WriteByte('-')
				pendingSpace = false
			}
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		default:
			// stripped characters do not break a whitespace run
		}
	}
	if pendingSpace {
		b.WriteByte('-')
	}

	id := b.String()
	if len(id) > maxPostIDLength {
		id = id[:maxPostIDLength]
	}

	return strings.Trim(id, "-")
}
