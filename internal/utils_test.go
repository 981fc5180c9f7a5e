package internal

import "testing"

func TestHashName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "d41d8cd98f00b204e9800998ecf8427e"},
		{"hello", "5d41402abc4b2a76b9719d911017c592"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := HashName(tt.in)
			if got != tt.want {
				t.Errorf("HashName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(got) != 32 {
				t.Errorf("HashName(%q) has length %d, want 32", tt.in, len(got))
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"level_1", "level_1"},
		{"a b/c", "a_b_c"},
		{"שלום", "שלום"},
		{"привет!", "привет_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
