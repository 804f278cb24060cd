package screening

import "testing"

func TestSoundexKnownExamples(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Robert", "R163"},
		{"Rupert", "R163"},
		{"Ashcraft", "A261"},
		{"Tymczak", "T522"},
		{"Pfister", "P236"},
	}
	for _, tt := range tests {
		if got := soundex(tt.in); got != tt.want {
			t.Errorf("soundex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSoundexEmpty(t *testing.T) {
	if got := soundex(""); got != "" {
		t.Errorf("soundex(\"\") = %q, want empty", got)
	}
}

func TestPhoneticallyCompatible(t *testing.T) {
	if !phoneticallyCompatible([]string{"robert"}, []string{"rupert"}, false) {
		t.Error("phoneticallyCompatible(robert, rupert) = false, want true (same Soundex)")
	}
	if phoneticallyCompatible([]string{"robert"}, []string{"zhang"}, false) {
		t.Error("phoneticallyCompatible(robert, zhang) = true, want false")
	}
	if !phoneticallyCompatible([]string{"robert"}, []string{"zhang"}, true) {
		t.Error("phoneticallyCompatible with disabled=true should always return true")
	}
}
