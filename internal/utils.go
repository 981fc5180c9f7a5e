package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// HashName returns the lowercase hex MD5 digest of s. Cache entries and audio
// assets are named by it, so the width is always 32 characters.
func HashName(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// SanitizeFilename replaces every rune that is not a letter, digit, '-' or '_'
// with an underscore.
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || (r >= 'а' && r <= 'я') ||
		(r >= 'А' && r <= 'Я') || (r >= 'א' && r <= 'ת')
}
