package lesson

import "strings"

// Field identifies an accumulating tagged field of a block.
type Field int

const (
	// FieldNone means no field is active; untagged lines are discarded.
	FieldNone Field = iota
	FieldHebrew
	FieldHebrewPrompt
	FieldHebrewCorrect
	FieldHebrewDistractors
	FieldRussian
	FieldRussianCorrect
	FieldVoices
	FieldPairs

	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldNone:              "",
	FieldHebrew:            "HEBREW",
	FieldHebrewPrompt:      "HEBREW_PROMPT",
	FieldHebrewCorrect:     "HEBREW_CORRECT",
	FieldHebrewDistractors: "HEBREW_DISTRACTORS",
	FieldRussian:           "RUSSIAN",
	FieldRussianCorrect:    "RUSSIAN_CORRECT",
	FieldVoices:            "VOICES",
	FieldPairs:             "PAIRS",
}

// String returns the tag name of the field without the trailing colon.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "UNKNOWN"
	}
	return fieldNames[f]
}

// Fields returns every accumulating field in declaration order.
func Fields() []Field {
	fields := make([]Field, 0, fieldCount-1)
	for f := FieldHebrew; f < fieldCount; f++ {
		fields = append(fields, f)
	}
	return fields
}

type tagKind int

const (
	tagField tagKind = iota
	tagTask
	tagSwapColumns
)

type tag struct {
	prefix string
	kind   tagKind
	field  Field
}

var tags = []tag{
	{prefix: "TASK:", kind: tagTask},
	{prefix: "SWAP_COLUMNS:", kind: tagSwapColumns},
	{prefix: "HEBREW_PROMPT:", kind: tagField, field: FieldHebrewPrompt},
	{prefix: "HEBREW_CORRECT:", kind: tagField, field: FieldHebrewCorrect},
	{prefix: "HEBREW_DISTRACTORS:", kind: tagField, field: FieldHebrewDistractors},
	{prefix: "HEBREW:", kind: tagField, field: FieldHebrew},
	{prefix: "RUSSIAN_CORRECT:", kind: tagField, field: FieldRussianCorrect},
	{prefix: "RUSSIAN:", kind: tagField, field: FieldRussian},
	{prefix: "VOICES:", kind: tagField, field: FieldVoices},
	{prefix: "PAIRS:", kind: tagField, field: FieldPairs},
}

// matchTag returns the tag a line starts with and the trimmed content
// following it.
func matchTag(line string) (tag, string, bool) {
	for _, t := range tags {
		if strings.HasPrefix(line, t.prefix) {
			return t, strings.TrimSpace(line[len(t.prefix):]), true
		}
	}
	return tag{}, "", false
}
