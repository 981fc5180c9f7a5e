package level

import (
	"bytes"
	"encoding/json"

	"github.com/vladimirpanonopm/levelc/internal/timeline"
)

// Card is one exercise in a level document. Cards are treated as values:
// the With* methods return modified copies that share no slices with the
// receiver.
type Card struct {
	TaskType          string             `json:"taskType"`
	UIDisplayTitle    string             `json:"uiDisplayTitle"`
	GamePrompt        string             `json:"gamePrompt,omitempty"`
	TranslationPrompt string             `json:"translationPrompt,omitempty"`
	AudioFilename     *string            `json:"audioFilename"`
	Segments          []timeline.Segment `json:"segments"`
	SwapColumns       bool               `json:"swapColumns,omitempty"`
	CorrectOptions    []string           `json:"correctOptions,omitempty"`
	TaskTargetCards   []string           `json:"taskTargetCards,omitempty"`
	DistractorOptions []string           `json:"distractorOptions,omitempty"`
	TaskPairs         [][2]string        `json:"taskPairs,omitempty"`
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.AudioFilename != nil {
		name := *c.AudioFilename
		out.AudioFilename = &name
	}
	out.Segments = cloneSlice(c.Segments)
	out.CorrectOptions = cloneSlice(c.CorrectOptions)
	out.TaskTargetCards = cloneSlice(c.TaskTargetCards)
	out.DistractorOptions = cloneSlice(c.DistractorOptions)
	out.TaskPairs = cloneSlice(c.TaskPairs)
	return out
}

// WithTaskType returns a deep copy of the card with the task type replaced.
func (c Card) WithTaskType(taskType string) Card {
	out := c.Clone()
	out.TaskType = taskType
	return out
}

// WithAudio returns a deep copy of the card pointing at the given audio asset
// and carrying its segment timing.
func (c Card) WithAudio(filename string, segments []timeline.Segment) Card {
	out := c.Clone()
	out.AudioFilename = &filename
	out.Segments = cloneSlice(segments)
	return out
}

// HasAudio reports whether the card references an audio asset.
func (c Card) HasAudio() bool {
	return c.AudioFilename != nil
}

// MarshalJSON keeps segments an array even when the card has no audio.
func (c Card) MarshalJSON() ([]byte, error) {
	type plain Card
	p := plain(c)
	if p.Segments == nil {
		p.Segments = []timeline.Segment{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
