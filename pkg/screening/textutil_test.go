package screening

import (
	"reflect"
	"testing"
)

func TestLowerAndStripPunctuation(t *testing.T) {
	tests := []struct{ in, want string }{
		{"José García", "jose garcia"},
		{"Vice-President", "vice-president"},
		{"  Multiple   Spaces  ", "multiple spaces"},
		{"ACME, Inc.", "acme inc"},
		{"Müller", "muller"},
	}
	for _, tt := range tests {
		if got := lowerAndStripPunctuation(tt.in); got != tt.want {
			t.Errorf("lowerAndStripPunctuation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripApostrophes(t *testing.T) {
	if got := stripApostrophes("O'Brien"); got != "OBrien" {
		t.Errorf("stripApostrophes(%q) = %q, want %q", "O'Brien", got, "OBrien")
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("vladimir putin")
	want := []string{"vladimir", "putin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize() = %v, want %v", got, want)
	}
	if got := tokenize("   "); got != nil {
		t.Errorf("tokenize(whitespace) = %v, want nil", got)
	}
}

func TestIsNumberToken(t *testing.T) {
	cases := map[string]bool{
		"123":     true,
		"1,234":   true,
		"1.5":     true,
		"abc":     false,
		"1a":      false,
		"-5":      true,
	}
	for tok, want := range cases {
		if got := isNumberToken(tok); got != want {
			t.Errorf("isNumberToken(%q) = %v, want %v", tok, got, want)
		}
	}
}
