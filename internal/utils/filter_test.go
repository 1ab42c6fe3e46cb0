package utils

import "testing"

func TestIsValidQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain word", "deploy", true},
		{"snake_case term", "works_at", true},
		{"hyphenated term", "follow-up", true},
		{"dotted term", "api.v2", true},
		{"empty", "", false},
		{"only digits", "12345", false},
		{"special chars", "dep!oy", false},
		{"repeated char", "aaaa", false},
		{"two chars pass repetition check", "aa", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidQuery(tt.input); got != tt.want {
				t.Errorf("IsValidQuery(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsOnlyNumbers(t *testing.T) {
	if IsOnlyNumbers("") {
		t.Error("empty string is not only numbers")
	}
	if !IsOnlyNumbers("42") {
		t.Error("42 is only numbers")
	}
	if IsOnlyNumbers("4a2") {
		t.Error("4a2 is not only numbers")
	}
}

func TestIsRepetitive(t *testing.T) {
	if IsRepetitive("ab") {
		t.Error("short strings are never repetitive")
	}
	if !IsRepetitive("zzzz") {
		t.Error("zzzz is repetitive")
	}
	if IsRepetitive("zzza") {
		t.Error("zzza is not repetitive")
	}
}
