package compiler

import (
	"errors"
	"fmt"

	"github.com/vladimirpanonopm/levelc/internal/audio"
	"github.com/vladimirpanonopm/levelc/internal/cache"
	"github.com/vladimirpanonopm/levelc/internal/lesson"
	"github.com/vladimirpanonopm/levelc/internal/task"
	"github.com/vladimirpanonopm/levelc/internal/timeline"
)

// ErrVoiceCountMismatch is reported when the VOICES directives of a card do
// not match the number of lines to speak.
var ErrVoiceCountMismatch = errors.New("voice count mismatch")

// Kind classifies a diagnostic.
type Kind string

const (
	KindMissingTaskType          Kind = "MissingTaskType"
	KindUnknownTaskType          Kind = "UnknownTaskType"
	KindFieldCountMismatch       Kind = "FieldCountMismatch"
	KindInvalidVoiceDirective    Kind = "InvalidVoiceDirective"
	KindVoiceCountMismatch       Kind = "VoiceCountMismatch"
	KindUnknownVoiceKey          Kind = "UnknownVoiceKey"
	KindSynthesisProviderFailure Kind = "SynthesisProviderFailure"
	KindCorruptedCacheEntry      Kind = "CorruptedCacheEntry"
	KindFormatMismatch           Kind = "FormatMismatch"
	KindOther                    Kind = "Error"
)

// SkipsCard reports whether a diagnostic of this kind drops the card from the
// level. All other kinds only affect its audio.
func (k Kind) SkipsCard() bool {
	switch k {
	case KindMissingTaskType, KindUnknownTaskType, KindFieldCountMismatch:
		return true
	}
	return false
}

// Classify maps an error to its diagnostic kind. A corrupted entry whose
// re-synthesis failed is a provider failure; CorruptedCacheEntry is left for
// entries that were recovered.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, task.ErrMissingTaskType):
		return KindMissingTaskType
	case errors.Is(err, task.ErrUnknownTaskType):
		return KindUnknownTaskType
	case errors.Is(err, task.ErrFieldCountMismatch):
		return KindFieldCountMismatch
	case errors.Is(err, lesson.ErrInvalidVoiceDirective):
		return KindInvalidVoiceDirective
	case errors.Is(err, ErrVoiceCountMismatch):
		return KindVoiceCountMismatch
	case errors.Is(err, audio.ErrUnknownVoiceKey):
		return KindUnknownVoiceKey
	case errors.Is(err, cache.ErrSynthesisProviderFailure):
		return KindSynthesisProviderFailure
	case errors.Is(err, cache.ErrCorruptedCacheEntry):
		return KindCorruptedCacheEntry
	case errors.Is(err, timeline.ErrFormatMismatch):
		return KindFormatMismatch
	}
	return KindOther
}

// Diagnostic is a problem found in one block.
type Diagnostic struct {
	Block    int
	TaskType string
	Kind     Kind
	Err      error
}

func newDiagnostic(block int, taskType string, err error) Diagnostic {
	return Diagnostic{Block: block, TaskType: taskType, Kind: Classify(err), Err: err}
}

// blockError prefixes err with the block position the way task errors are.
func blockError(block int, taskType string, err error) error {
	return fmt.Errorf("block %d (%s): %w", block, taskType, err)
}

// String renders the kind and the error. Errors already carry the block
// position.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Kind, d.Err)
}
