package task

import (
	"fmt"
	"strings"

	"github.com/vladimirpanonopm/levelc/internal/lesson"
	"github.com/vladimirpanonopm/levelc/internal/level"
	"github.com/vladimirpanonopm/levelc/internal/tokens"
)

// voiced fills the audio inputs shared by every task that speaks its HEBREW
// block.
func voiced(card level.Card, rec *lesson.Record) Projection {
	return Projection{
		Card:       card,
		AudioLines: rec.Lines(lesson.FieldHebrew),
		HashSource: rec.Text(lesson.FieldHebrew),
	}
}

// ASSEMBLE_TRANSLATION and AUDITION
type displayVariant struct{}

func (displayVariant) project(rec *lesson.Record, x *tokens.Extractor) (Projection, error) {
	display := rec.Text(lesson.FieldHebrew)
	return voiced(level.Card{
		UIDisplayTitle:    display,
		TranslationPrompt: rec.Text(lesson.FieldRussian),
		DistractorOptions: rec.Lines(lesson.FieldHebrewDistractors),
		TaskTargetCards:   x.Extract(display),
	}, rec), nil
}

type fillInBlankVariant struct{}

func (fillInBlankVariant) project(rec *lesson.Record, _ *tokens.Extractor) (Projection, error) {
	return voiced(level.Card{
		UIDisplayTitle:    rec.Text(lesson.FieldHebrewPrompt),
		TranslationPrompt: rec.Text(lesson.FieldRussian),
		CorrectOptions:    rec.Lines(lesson.FieldHebrewCorrect),
		DistractorOptions: rec.Lines(lesson.FieldHebrewDistractors),
	}, rec), nil
}

type quizVariant struct{}

func (quizVariant) project(rec *lesson.Record, x *tokens.Extractor) (Projection, error) {
	correct := rec.Lines(lesson.FieldHebrewCorrect)
	return Projection{Card: level.Card{
		UIDisplayTitle:    rec.Text(lesson.FieldHebrewPrompt),
		TranslationPrompt: rec.Text(lesson.FieldRussian),
		CorrectOptions:    correct,
		DistractorOptions: rec.Lines(lesson.FieldHebrewDistractors),
		TaskTargetCards:   x.Extract(strings.Join(correct, " ")),
	}}, nil
}

type matchingPairsVariant struct{}

func (matchingPairsVariant) project(rec *lesson.Record, _ *tokens.Extractor) (Projection, error) {
	left := rec.Lines(lesson.FieldHebrewCorrect)
	right := rec.Lines(lesson.FieldRussianCorrect)
	if len(left) == 0 || len(right) == 0 {
		return Projection{}, fmt.Errorf("%w: empty pair list (%s=%d, %s=%d)", ErrFieldCountMismatch,
			lesson.FieldHebrewCorrect, len(left), lesson.FieldRussianCorrect, len(right))
	}
	if len(left) != len(right) {
		return Projection{}, fmt.Errorf("%w: %s has %d lines, %s has %d", ErrFieldCountMismatch,
			lesson.FieldHebrewCorrect, len(left), lesson.FieldRussianCorrect, len(right))
	}

	pairs := make([][2]string, len(left))
	for i := range left {
		pairs[i] = [2]string{left[i], right[i]}
	}
	return Projection{Card: level.Card{
		UIDisplayTitle: rec.Text(lesson.FieldRussian),
		TaskPairs:      pairs,
	}}, nil
}

type conjugationVariant struct{}

func (conjugationVariant) project(rec *lesson.Record, x *tokens.Extractor) (Projection, error) {
	var pairs [][2]string
	var targets []string
	for _, line := range rec.Lines(lesson.FieldPairs) {
		question, answer, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		// Only the first comma splits; anything after a second comma is
		// dropped along with it.
		answer, _, _ = strings.Cut(answer, ",")
		question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
		pairs = append(pairs, [2]string{question, answer})

		side := answer
		if rec.SwapColumns {
			side = question
		}
		targets = append(targets, x.Extract(side)...)
	}

	return Projection{Card: level.Card{
		UIDisplayTitle:    rec.Text(lesson.FieldHebrewPrompt),
		SwapColumns:       rec.SwapColumns,
		DistractorOptions: rec.Lines(lesson.FieldHebrewDistractors),
		TaskPairs:         pairs,
		TaskTargetCards:   targets,
	}}, nil
}

// MAKE_QUESTION and MAKE_ANSWER
type makeVariant struct{}

func (makeVariant) project(rec *lesson.Record, x *tokens.Extractor) (Projection, error) {
	correct := rec.Lines(lesson.FieldHebrewCorrect)
	return voiced(level.Card{
		UIDisplayTitle:    rec.Text(lesson.FieldHebrew),
		GamePrompt:        rec.Text(lesson.FieldHebrewPrompt),
		TranslationPrompt: rec.Text(lesson.FieldRussian),
		CorrectOptions:    correct,
		DistractorOptions: rec.Lines(lesson.FieldHebrewDistractors),
		TaskTargetCards:   x.Extract(strings.Join(correct, " ")),
	}, rec), nil
}
