/* names_test.go
 * Contains unit tests for display-name cleanup
 * Authors: Zachary Bower
 */

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDecorations(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name untouched", "Alice", "Alice"},
		{"internal spaces kept", "Mary Jane", "Mary Jane"},
		{"emoji removed", "Alice 🔥🔥", "Alice"},
		{"emoji inside name", "Bo🎲b", "Bob"},
		{"zwj sequence removed", "Dana 👩‍💻", "Dana"},
		{"variation selector removed", "Eve ☃️", "Eve"},
		{"whitespace collapsed", "  Frank   the  Tank ", "Frank the Tank"},
		{"accented letters survive", "José Müller", "José Müller"},
		{"cjk survives", "山田太郎", "山田太郎"},
		{"all decoration becomes empty", "🎉✨🎉", ""},
		{"empty input", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripDecorations(tc.input))
		})
	}
}
