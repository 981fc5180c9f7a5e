package lesson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVoiceDirective is returned for a VOICES line whose pause is not a
// non-negative integer.
var ErrInvalidVoiceDirective = errors.New("invalid voice directive")

// VoiceDirective selects the voice for one spoken line and the pause after it.
// A zero PauseMs means the default pause applies.
type VoiceDirective struct {
	Key     string
	PauseMs int
}

// ParseVoices parses VOICES lines of the form "key[, pauseMs]". Lines with an
// empty key are ignored.
func ParseVoices(lines []string) ([]VoiceDirective, error) {
	var directives []VoiceDirective
	for _, line := range lines {
		parts := strings.Split(line, ",")
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}

		d := VoiceDirective{Key: key}
		if len(parts) > 1 {
			raw := strings.TrimSpace(parts[1])
			if raw != "" {
				ms, err := strconv.Atoi(raw)
				if err != nil || ms < 0 {
					return nil, fmt.Errorf("%w: %q", ErrInvalidVoiceDirective, line)
				}
				d.PauseMs = ms
			}
		}
		directives = append(directives, d)
	}
	return directives, nil
}
