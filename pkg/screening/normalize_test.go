package screening

import (
	"testing"

	"github.com/braidfi/sanctionscreen/pkg/config"
)

func TestReorderLastFirst(t *testing.T) {
	if got := reorderLastFirst("Smith, John"); got != "John Smith" {
		t.Errorf("reorderLastFirst(%q) = %q, want %q", "Smith, John", got, "John Smith")
	}
	if got := reorderLastFirst("John Smith"); got != "John Smith" {
		t.Errorf("reorderLastFirst(no comma) = %q, want unchanged", got)
	}
}

func TestStripCompanySuffixes(t *testing.T) {
	got := stripCompanySuffixes([]string{"acme", "holdings", "inc"}, nil)
	want := []string{"acme", "holdings"}
	if len(got) != len(want) {
		t.Fatalf("stripCompanySuffixes() = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("stripCompanySuffixes() = %v, want %v", got, want)
		}
	}
}

func TestStripCompanySuffixesOverlay(t *testing.T) {
	got := stripCompanySuffixes([]string{"acme", "holdings", "sezc"}, []string{"SEZC"})
	want := []string{"acme", "holdings"}
	if len(got) != len(want) {
		t.Fatalf("stripCompanySuffixes(overlay) = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("stripCompanySuffixes(overlay) = %v, want %v", got, want)
		}
	}
}

func TestNormalizeNameFieldAppliesOverlayStopword(t *testing.T) {
	cfg := config.New()
	cfg.Overlay = &config.Overlay{
		StopwordOverrides: map[string][]string{LangEnglish: {"holdings"}},
	}
	_, toks, _ := normalizeNameField("Acme Holdings Inc", "", cfg)
	for _, tok := range toks {
		if tok == "holdings" {
			t.Fatalf("normalizeNameField() tokens = %v, expected overlay stopword %q removed", toks, "holdings")
		}
	}
}

func TestNormalizeNameFieldTreatsInvalidUTF8AsEmpty(t *testing.T) {
	cfg := config.New()
	invalid := "abc\xff\xfedef"
	normalized, toks, _ := normalizeNameField(invalid, "", cfg)
	if normalized != "" || len(toks) != 0 {
		t.Fatalf("normalizeNameField(invalid utf8) = (%q, %v), want empty per NormalizationFailure degrade-to-empty", normalized, toks)
	}
}

func TestNormalizeFieldSafeRejectsInvalidUTF8(t *testing.T) {
	if _, err := normalizeFieldSafe("name", "abc\xff\xfedef"); err == nil {
		t.Fatal("normalizeFieldSafe() error = nil, want ErrNormalizationFailure for invalid UTF-8")
	}
	if _, err := normalizeFieldSafe("name", "Vladimir Putin"); err != nil {
		t.Errorf("normalizeFieldSafe() error = %v, want nil for valid input", err)
	}
}

func TestNormalizeCountryAliases(t *testing.T) {
	tests := map[string]string{
		"US": "united states", "usa": "united states",
		"KP": "north korea", "DPRK": "north korea",
		"uk": "united kingdom",
	}
	for in, want := range tests {
		if got := normalizeCountry(in); got != want {
			t.Errorf("normalizeCountry(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhoneStripsNoiseAndTrunkPrefix(t *testing.T) {
	if got := normalizePhone("+1 (555) 123-4567"); got != "15551234567" {
		t.Errorf("normalizePhone() = %q, want %q", got, "15551234567")
	}
	if got := normalizePhone("011 44 20 1234 5678"); got != "442012345678" {
		t.Errorf("normalizePhone(trunk prefix) = %q, want %q", got, "442012345678")
	}
}

func TestNormalizeIdentifierUppercasesAndStripsNoise(t *testing.T) {
	if got := normalizeIdentifier("ab-12 34"); got != "AB1234" {
		t.Errorf("normalizeIdentifier() = %q, want %q", got, "AB1234")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	cfg := config.New()
	e := &Entity{
		ID: "1", Name: "Smith, John", Type: TypePerson, Source: SourceOFACSDN,
		Person:    &PersonDetail{Gender: "M"},
		AltNames:  []string{"Johnny Smith"},
		Addresses: []Address{{Line1: "1 Main St.", Country: "US"}},
	}

	once, err := normalize(e, cfg)
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	twice, err := normalize(once, cfg)
	if err != nil {
		t.Fatalf("normalize(normalize(e)) error = %v", err)
	}

	if once.Prepared.NormalizedPrimaryName != twice.Prepared.NormalizedPrimaryName {
		t.Errorf("normalize is not idempotent: %q != %q", once.Prepared.NormalizedPrimaryName, twice.Prepared.NormalizedPrimaryName)
	}
}

func TestNormalizeRejectsInvalidEntity(t *testing.T) {
	cfg := config.New()
	if _, err := normalize(&Entity{}, cfg); err == nil {
		t.Fatal("normalize(invalid entity) error = nil, want InvalidEntity")
	}
}

func TestNormalizeRequiresConfig(t *testing.T) {
	e := &Entity{ID: "1", Name: "Acme", Type: TypeBusiness, Business: &BusinessDetail{}}
	if _, err := normalize(e, nil); err == nil {
		t.Fatal("normalize(nil config) error = nil, want ConfigurationMissing")
	}
}
