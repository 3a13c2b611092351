/* names.go
 * Contains display-name cleanup. Server nicknames are full of emoji and decorative
 * symbols that make pairing and standings tables unreadable, so they are stripped
 * when the roster is frozen into players
 * Authors: Zachary Bower
 */

package event

import (
	"strings"
	"unicode"
)

// StripDecorations removes emoji, symbols and invisible formatting runes from a
// display name and collapses the surrounding whitespace
// Preconditions: Receives a display name string
// Postconditions: Returns the cleaned name, possibly empty if the name was all decoration
func StripDecorations(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.In(r, unicode.So, unicode.Sk, unicode.Cf, unicode.Co) {
			continue
		}
		// Emoji modifiers and variation selectors are format runes in some
		// tables and nonspacing marks in others
		if r >= 0x1F000 && r <= 0x1FAFF {
			continue
		}
		if r == 0x200D || (r >= 0xFE00 && r <= 0xFE0F) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
