package screening

import (
	"reflect"
	"testing"
)

func TestRemoveStopwordsPreservesNumbers(t *testing.T) {
	got := removeStopwords([]string{"the", "company", "123", "acme"}, LangEnglish, nil)
	want := []string{"123", "acme"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("removeStopwords() = %v, want %v", got, want)
	}
}

func TestRemoveStopwordsUnknownLanguageFallsBackToEnglish(t *testing.T) {
	got := removeStopwords([]string{"the", "acme"}, "xx", nil)
	want := []string{"acme"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("removeStopwords(unknown lang) = %v, want %v", got, want)
	}
}

func TestRemoveStopwordsAppliesOverlayExtra(t *testing.T) {
	got := removeStopwords([]string{"the", "acme", "foundation"}, LangEnglish, []string{"Foundation"})
	want := []string{"acme"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("removeStopwords(overlay) = %v, want %v", got, want)
	}
}

func TestLanguageForCountry(t *testing.T) {
	if got := languageForCountry("Russia"); got != LangRussian {
		t.Errorf("languageForCountry(Russia) = %q, want %q", got, LangRussian)
	}
	if got := languageForCountry("north korea"); got != LangEnglish {
		t.Errorf("languageForCountry(north korea) = %q, want %q (DPRK override)", got, LangEnglish)
	}
	if got := languageForCountry("Atlantis"); got != "" {
		t.Errorf("languageForCountry(Atlantis) = %q, want empty for unknown country", got)
	}
}

func TestResolveLanguageFallbackChain(t *testing.T) {
	if got := resolveLanguage("el señor de la casa", ""); got != LangSpanish {
		t.Errorf("resolveLanguage(spanish text) = %q, want %q", got, LangSpanish)
	}
	if got := resolveLanguage("xyzzy plugh", "russia"); got != LangRussian {
		t.Errorf("resolveLanguage(ambiguous text, russia) = %q, want country fallback %q", got, LangRussian)
	}
	if got := resolveLanguage("xyzzy plugh", ""); got != LangEnglish {
		t.Errorf("resolveLanguage(ambiguous text, no country) = %q, want default %q", got, LangEnglish)
	}
}
