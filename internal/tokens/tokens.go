// Package tokens extracts word-like tokens of a single target script from
// mixed-script text.
package tokens

import (
	"strings"
	"unicode"
)

// Hebrew covers the Hebrew Unicode block, U+0590 through U+05FF.
var Hebrew = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0590, Hi: 0x05FF, Stride: 1}},
}

// Cyrillic covers the basic Cyrillic block, U+0400 through U+04FF.
var Cyrillic = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0400, Hi: 0x04FF, Stride: 1}},
}

// Extractor returns maximal runs of script runes. The apostrophe counts as part
// of a word so that transliteration marks such as ג' stay attached.
type Extractor struct {
	script *unicode.RangeTable
}

// NewExtractor creates an extractor for the given script table.
func NewExtractor(script *unicode.RangeTable) *Extractor {
	return &Extractor{script: script}
}

// ForScript returns an extractor for a named preset ("hebrew" or "cyrillic").
// Unknown names fall back to Hebrew.
func ForScript(name string) *Extractor {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cyrillic", "russian":
		return NewExtractor(Cyrillic)
	default:
		return NewExtractor(Hebrew)
	}
}

func (e *Extractor) isWordRune(r rune) bool {
	return r == '\'' || unicode.Is(e.script, r)
}

// Extract returns the tokens of text in order of occurrence.
func (e *Extractor) Extract(text string) []string {
	var tokens []string
	start := -1
	for i, r := range text {
		if e.isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, text[start:])
	}
	return tokens
}
