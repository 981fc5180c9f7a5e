package audio

import (
	"fmt"
	"strings"
	"unicode"
)

// maxTextRunes bounds a single synthesis request; lesson lines are short.
const maxTextRunes = 4000

// ValidateText checks that text is speakable: non-blank, not oversized, and
// containing at least one letter.
func ValidateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("text cannot be empty")
	}

	n := 0
	hasLetter := false
	for _, r := range trimmed {
		n++
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if n > maxTextRunes {
		return fmt.Errorf("text too long: %d characters (max %d)", n, maxTextRunes)
	}
	if !hasLetter {
		return fmt.Errorf("text must contain letters")
	}

	return nil
}
