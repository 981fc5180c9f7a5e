package tokens

import (
	"reflect"
	"testing"
)

func TestExtract_Hebrew(t *testing.T) {
	e := NewExtractor(Hebrew)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"two words", "שלום עולם", []string{"שלום", "עולם"}},
		{"punctuation splits", "שלום, מה שלומך?", []string{"שלום", "מה", "שלומך"}},
		{"apostrophe kept", "ג'ירפה יפה", []string{"ג'ירפה", "יפה"}},
		{"niqqud stays in token", "שָׁלוֹם", []string{"שָׁלוֹם"}},
		{"mixed scripts", "hello שלום Привет", []string{"שלום"}},
		{"digits split", "אחד1שתיים", []string{"אחד", "שתיים"}},
		{"multiline", "אני\nאתה", []string{"אני", "אתה"}},
		{"no target script", "hello world", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Extract(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_Cyrillic(t *testing.T) {
	e := NewExtractor(Cyrillic)
	got := e.Extract("Привет, мир! שלום")
	want := []string{"Привет", "мир"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestForScript(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"hebrew", "שלום мир", []string{"שלום"}},
		{"cyrillic", "שלום мир", []string{"мир"}},
		{"RUSSIAN", "שלום мир", []string{"мир"}},
		{"", "שלום мир", []string{"שלום"}},
		{"klingon", "שלום мир", []string{"שלום"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForScript(tt.name).Extract(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ForScript(%q).Extract() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
