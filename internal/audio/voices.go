package audio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownVoiceKey is returned when a voice key has no entry in the table.
var ErrUnknownVoiceKey = errors.New("unknown voice key")

// VoiceTable maps short voice keys used in lesson sources to provider voice
// identifiers.
type VoiceTable map[string]string

var defaultVoices = map[string]VoiceTable{
	"openai": {
		"female_a": "nova",
		"male_b":   "onyx",
		"female_c": "shimmer",
		"male_d":   "echo",
	},
	"gemini": {
		"female_a": "Kore",
		"male_b":   "Puck",
		"female_c": "Aoede",
		"male_d":   "Charon",
	},
	"espeak": {
		"female_a": "he+f1",
		"male_b":   "he+m1",
		"female_c": "he+f2",
		"male_d":   "he+m3",
	},
}

// DefaultVoices returns a copy of the built-in table for a provider. The
// "fallback" provider speaks with OpenAI voices.
func DefaultVoices(provider string) VoiceTable {
	name := strings.ToLower(provider)
	switch name {
	case "fallback":
		name = "openai"
	case "espeak-ng":
		name = "espeak"
	}
	return defaultVoices[name].With(nil)
}

// With returns a copy of the table with overrides applied. Empty override
// values are ignored.
func (t VoiceTable) With(overrides map[string]string) VoiceTable {
	out := make(VoiceTable, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

// Resolve returns the voice identifier for key.
func (t VoiceTable) Resolve(key string) (string, error) {
	id, ok := t[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVoiceKey, key)
	}
	return id, nil
}

// Keys returns the voice keys in sorted order.
func (t VoiceTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TranslateVoices maps each identifier in from to the identifier sharing its
// key in to.
func TranslateVoices(from, to VoiceTable) map[string]string {
	out := make(map[string]string, len(from))
	for key, id := range from {
		if target, ok := to[key]; ok {
			out[id] = target
		}
	}
	return out
}
