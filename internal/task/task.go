// Package task projects parsed lesson records into level cards. Each task
// type has its own variant; the registry maps a task type to exactly one.
package task

import (
	"errors"
	"fmt"

	"github.com/vladimirpanonopm/levelc/internal/lesson"
	"github.com/vladimirpanonopm/levelc/internal/level"
	"github.com/vladimirpanonopm/levelc/internal/tokens"
)

// Type is an exercise kind.
type Type string

const (
	AssembleTranslation Type = "ASSEMBLE_TRANSLATION"
	Audition            Type = "AUDITION"
	FillInBlank         Type = "FILL_IN_BLANK"
	Quiz                Type = "QUIZ"
	MatchingPairs       Type = "MATCHING_PAIRS"
	Conjugation         Type = "CONJUGATION"
	MakeQuestion        Type = "MAKE_QUESTION"
	MakeAnswer          Type = "MAKE_ANSWER"
)

// Types lists every supported task type.
var Types = []Type{
	AssembleTranslation,
	Audition,
	FillInBlank,
	Quiz,
	MatchingPairs,
	Conjugation,
	MakeQuestion,
	MakeAnswer,
}

var (
	ErrMissingTaskType    = errors.New("missing task type")
	ErrUnknownTaskType    = errors.New("unknown task type")
	ErrFieldCountMismatch = errors.New("field count mismatch")
)

// Projection is a resolved card plus what the compiler needs to voice it.
type Projection struct {
	Card level.Card
	// AudioLines are the lines spoken one per VOICES directive.
	AudioLines []string
	// HashSource is the display text that names the audio asset. Empty means
	// the card never gets audio.
	HashSource string
}

// WantsAudio reports whether the projection has something to voice.
func (p Projection) WantsAudio() bool {
	return p.HashSource != ""
}

// variant produces a projection for one task type.
type variant interface {
	project(rec *lesson.Record, x *tokens.Extractor) (Projection, error)
}

// Resolver dispatches records to their task variant.
type Resolver struct {
	extractor *tokens.Extractor
	variants  map[Type]variant
}

// NewResolver creates a resolver that extracts target tokens with x.
func NewResolver(x *tokens.Extractor) *Resolver {
	if x == nil {
		x = tokens.NewExtractor(tokens.Hebrew)
	}
	return &Resolver{
		extractor: x,
		variants: map[Type]variant{
			AssembleTranslation: displayVariant{},
			Audition:            displayVariant{},
			FillInBlank:         fillInBlankVariant{},
			Quiz:                quizVariant{},
			MatchingPairs:       matchingPairsVariant{},
			Conjugation:         conjugationVariant{},
			MakeQuestion:        makeVariant{},
			MakeAnswer:          makeVariant{},
		},
	}
}

// Supports reports whether t has a registered variant.
func (r *Resolver) Supports(t Type) bool {
	_, ok := r.variants[t]
	return ok
}

// Resolve projects a record into a card.
func (r *Resolver) Resolve(rec *lesson.Record) (Projection, error) {
	if rec.TaskType == "" {
		return Projection{}, fmt.Errorf("block %d: %w", rec.Block, ErrMissingTaskType)
	}

	t := Type(rec.TaskType)
	v, ok := r.variants[t]
	if !ok {
		return Projection{}, fmt.Errorf("block %d: %w: %s", rec.Block, ErrUnknownTaskType, rec.TaskType)
	}

	p, err := v.project(rec, r.extractor)
	if err != nil {
		return Projection{}, fmt.Errorf("block %d (%s): %w", rec.Block, t, err)
	}
	p.Card.TaskType = string(t)
	return p, nil
}
