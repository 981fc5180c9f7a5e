package task

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vladimirpanonopm/levelc/internal/lesson"
	"github.com/vladimirpanonopm/levelc/internal/tokens"
)

func record(t *testing.T, lines ...string) *lesson.Record {
	t.Helper()
	rec := lesson.Parse(lesson.Block{Index: 1, Lines: lines})
	return &rec
}

func TestEveryTypeHasVariant(t *testing.T) {
	r := NewResolver(nil)
	for _, typ := range Types {
		if !r.Supports(typ) {
			t.Errorf("task type %s has no variant", typ)
		}
	}
	if len(r.variants) != len(Types) {
		t.Errorf("registered %d variants for %d task types", len(r.variants), len(Types))
	}
}

func TestResolve_AssembleTranslation(t *testing.T) {
	r := NewResolver(tokens.NewExtractor(tokens.Hebrew))
	p, err := r.Resolve(record(t,
		"TASK: ASSEMBLE_TRANSLATION",
		"HEBREW: שלום עולם",
		"RUSSIAN: Привет мир",
		"VOICES: female_a",
	))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	c := p.Card
	if c.TaskType != "ASSEMBLE_TRANSLATION" || c.UIDisplayTitle != "שלום עולם" || c.TranslationPrompt != "Привет мир" {
		t.Errorf("unexpected card %+v", c)
	}
	if want := []string{"שלום", "עולם"}; !reflect.DeepEqual(c.TaskTargetCards, want) {
		t.Errorf("TaskTargetCards = %q, want %q", c.TaskTargetCards, want)
	}
	if !reflect.DeepEqual(p.AudioLines, []string{"שלום עולם"}) || p.HashSource != "שלום עולם" {
		t.Errorf("audio inputs = %q / %q", p.AudioLines, p.HashSource)
	}
	if c.HasAudio() {
		t.Error("resolver must not attach audio")
	}
}

func TestResolve_Variants(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name       string
		lines      []string
		wantTitle  string
		wantAudio  bool
		wantTarget []string
		check      func(t *testing.T, p Projection)
	}{
		{
			name: "audition",
			lines: []string{"TASK: AUDITION", "HEBREW: אני כאן", "RUSSIAN: Я здесь",
				"HEBREW_DISTRACTORS: הוא", "היא"},
			wantTitle:  "אני כאן",
			wantAudio:  true,
			wantTarget: []string{"אני", "כאן"},
			check: func(t *testing.T, p Projection) {
				if !reflect.DeepEqual(p.Card.DistractorOptions, []string{"הוא", "היא"}) {
					t.Errorf("DistractorOptions = %q", p.Card.DistractorOptions)
				}
			},
		},
		{
			name: "fill in blank",
			lines: []string{"TASK: FILL_IN_BLANK", "HEBREW: אני הולך הביתה", "HEBREW_PROMPT: אני ___ הביתה",
				"HEBREW_CORRECT: הולך", "HEBREW_DISTRACTORS: הולכת", "RUSSIAN: Я иду домой"},
			wantTitle: "אני ___ הביתה",
			wantAudio: true,
			check: func(t *testing.T, p Projection) {
				if p.HashSource != "אני הולך הביתה" {
					t.Errorf("HashSource = %q, want display text", p.HashSource)
				}
				if !reflect.DeepEqual(p.Card.CorrectOptions, []string{"הולך"}) {
					t.Errorf("CorrectOptions = %q", p.Card.CorrectOptions)
				}
				if p.Card.TaskTargetCards != nil {
					t.Errorf("FILL_IN_BLANK has no target cards, got %q", p.Card.TaskTargetCards)
				}
			},
		},
		{
			name: "quiz",
			lines: []string{"TASK: QUIZ", "HEBREW_PROMPT: מה זה?", "HEBREW_CORRECT: ספר", "טוב",
				"HEBREW_DISTRACTORS: עט", "HEBREW: ignored for audio"},
			wantTitle:  "מה זה?",
			wantTarget: []string{"ספר", "טוב"},
		},
		{
			name: "make question",
			lines: []string{"TASK: MAKE_QUESTION", "HEBREW: איפה הספר?", "הספר כאן.",
				"HEBREW_PROMPT: הספר כאן.", "HEBREW_CORRECT: איפה", "הספר?", "RUSSIAN: Где книга?"},
			wantTitle:  "איפה הספר?\nהספר כאן.",
			wantAudio:  true,
			wantTarget: []string{"איפה", "הספר"},
			check: func(t *testing.T, p Projection) {
				if p.Card.GamePrompt != "הספר כאן." {
					t.Errorf("GamePrompt = %q", p.Card.GamePrompt)
				}
				if len(p.AudioLines) != 2 {
					t.Errorf("AudioLines = %q, want both HEBREW lines", p.AudioLines)
				}
			},
		},
		{
			name: "make answer",
			lines: []string{"TASK: MAKE_ANSWER", "HEBREW: מה שלומך? טוב.", "HEBREW_PROMPT: מה שלומך?",
				"HEBREW_CORRECT: טוב."},
			wantTitle:  "מה שלומך? טוב.",
			wantAudio:  true,
			wantTarget: []string{"טוב"},
		},
		{
			name: "matching pairs",
			lines: []string{"TASK: MATCHING_PAIRS", "RUSSIAN: Соедините пары", "HEBREW_CORRECT: ספר", "עט",
				"RUSSIAN_CORRECT: книга", "ручка"},
			wantTitle: "Соедините пары",
			check: func(t *testing.T, p Projection) {
				want := [][2]string{{"ספר", "книга"}, {"עט", "ручка"}}
				if !reflect.DeepEqual(p.Card.TaskPairs, want) {
					t.Errorf("TaskPairs = %q, want %q", p.Card.TaskPairs, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Resolve(record(t, tt.lines...))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if p.Card.UIDisplayTitle != tt.wantTitle {
				t.Errorf("UIDisplayTitle = %q, want %q", p.Card.UIDisplayTitle, tt.wantTitle)
			}
			if p.WantsAudio() != tt.wantAudio {
				t.Errorf("WantsAudio() = %v, want %v", p.WantsAudio(), tt.wantAudio)
			}
			if !reflect.DeepEqual(p.Card.TaskTargetCards, tt.wantTarget) {
				t.Errorf("TaskTargetCards = %q, want %q", p.Card.TaskTargetCards, tt.wantTarget)
			}
			if tt.check != nil {
				tt.check(t, p)
			}
		})
	}
}

func TestResolve_Conjugation(t *testing.T) {
	r := NewResolver(nil)
	base := []string{
		"TASK: CONJUGATION",
		"HEBREW_PROMPT: להיות",
		"PAIRS: I am, אני",
		"you are, אתה, extra",
		"no comma here",
		"HEBREW_DISTRACTORS: הוא",
	}

	t.Run("answer side", func(t *testing.T) {
		p, err := r.Resolve(record(t, base...))
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		wantPairs := [][2]string{{"I am", "אני"}, {"you are", "אתה"}}
		if !reflect.DeepEqual(p.Card.TaskPairs, wantPairs) {
			t.Errorf("TaskPairs = %q, want %q", p.Card.TaskPairs, wantPairs)
		}
		if want := []string{"אני", "אתה"}; !reflect.DeepEqual(p.Card.TaskTargetCards, want) {
			t.Errorf("TaskTargetCards = %q, want %q", p.Card.TaskTargetCards, want)
		}
		if p.Card.SwapColumns || p.WantsAudio() {
			t.Errorf("unexpected swap/audio: %+v", p)
		}
	})

	t.Run("question side when swapped", func(t *testing.T) {
		lines := append([]string{"SWAP_COLUMNS: true"}, base...)
		lines = append(lines, "PAIRS: אנחנו, we are")
		p, err := r.Resolve(record(t, lines...))
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !p.Card.SwapColumns {
			t.Error("SwapColumns not carried into card")
		}
		if want := []string{"אנחנו"}; !reflect.DeepEqual(p.Card.TaskTargetCards, want) {
			t.Errorf("TaskTargetCards = %q, want %q", p.Card.TaskTargetCards, want)
		}
	})
}

func TestResolve_Errors(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name    string
		lines   []string
		wantErr error
	}{
		{"missing task", []string{"HEBREW: שלום"}, ErrMissingTaskType},
		{"unknown task", []string{"TASK: DANCE"}, ErrUnknownTaskType},
		{"lowercase task is unknown", []string{"TASK: quiz"}, ErrUnknownTaskType},
		{"pairs length mismatch", []string{"TASK: MATCHING_PAIRS", "HEBREW_CORRECT: א", "ב", "RUSSIAN_CORRECT: а"}, ErrFieldCountMismatch},
		{"pairs empty", []string{"TASK: MATCHING_PAIRS"}, ErrFieldCountMismatch},
		{"pairs one side empty", []string{"TASK: MATCHING_PAIRS", "HEBREW_CORRECT: א"}, ErrFieldCountMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(record(t, tt.lines...))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), "block 1") {
				t.Errorf("error should name the block: %v", err)
			}
		})
	}
}
