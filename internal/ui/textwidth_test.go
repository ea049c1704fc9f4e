package ui

import "testing"

func TestStringWidth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"ascii", "hello", 5},
		{"empty", "", 0},
		{"wide cjk", "日本", 4},
		{"mixed", "a日b", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringWidth(tt.input); got != tt.want {
				t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 5); StringWidth(got) > 5 {
		t.Errorf("Truncate result too wide: %q", got)
	}
	if got := Truncate("hi", 10); got != "hi" {
		t.Errorf("short string should pass through, got %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Errorf("zero width should return empty, got %q", got)
	}
}

func TestRuneWidth(t *testing.T) {
	if RuneWidth('a') != 1 {
		t.Error("ascii rune should be 1 column")
	}
	if RuneWidth('日') != 2 {
		t.Error("CJK rune should be 2 columns")
	}
}
