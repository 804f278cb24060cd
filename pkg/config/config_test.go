package config

import (
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()
	if cfg == nil {
		t.Fatal("New returned nil")
	}

	if cfg.JaroWinklerBoostThreshold <= 0 || cfg.JaroWinklerBoostThreshold > 1 {
		t.Errorf("JaroWinklerBoostThreshold should be between 0 and 1, got %f", cfg.JaroWinklerBoostThreshold)
	}
	if cfg.JaroWinklerPrefixSize != DefaultJaroWinklerPrefixSize {
		t.Errorf("expected default prefix size %d, got %d", DefaultJaroWinklerPrefixSize, cfg.JaroWinklerPrefixSize)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.JaroWinklerBoostThreshold != DefaultJaroWinklerBoostThreshold {
		t.Errorf("expected default boost threshold, got %f", cfg.JaroWinklerBoostThreshold)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	_ = os.Setenv("SCREEN_JARO_WINKLER_BOOST_THRESHOLD", "0.5")
	_ = os.Setenv("SCREEN_PHONETIC_FILTERING_DISABLED", "true")
	defer func() {
		_ = os.Unsetenv("SCREEN_JARO_WINKLER_BOOST_THRESHOLD")
		_ = os.Unsetenv("SCREEN_PHONETIC_FILTERING_DISABLED")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.JaroWinklerBoostThreshold != 0.5 {
		t.Errorf("expected 0.5, got %f", cfg.JaroWinklerBoostThreshold)
	}
	if !cfg.PhoneticFilteringDisabled {
		t.Errorf("expected phonetic filtering disabled")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	_ = os.Setenv("SCREEN_JARO_WINKLER_BOOST_THRESHOLD", "not-a-float")
	defer func() { _ = os.Unsetenv("SCREEN_JARO_WINKLER_BOOST_THRESHOLD") }()

	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable env value")
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.JaroWinklerBoostThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for out-of-range threshold")
	}
}

func TestProfiles(t *testing.T) {
	for name, p := range map[string]*Config{
		"strict":   Strict(),
		"balanced": Balanced(),
		"lenient":  Lenient(),
	} {
		if err := p.Validate(); err != nil {
			t.Errorf("profile %s failed validation: %v", name, err)
		}
	}

	if Strict().DifferentLetterPenaltyWeight <= Lenient().DifferentLetterPenaltyWeight {
		t.Error("expected Strict to penalize differing first letters less than Lenient (higher multiplier)")
	}
}

func TestClampInt(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		result := clampInt(tt.val, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("clampInt(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, result, tt.expected)
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	_ = os.Setenv("SCREEN_TEST_INT_VAR", "42")
	defer func() { _ = os.Unsetenv("SCREEN_TEST_INT_VAR") }()

	if result := GetEnvInt("TEST_INT_VAR", 10); result != 42 {
		t.Errorf("expected 42, got %d", result)
	}

	if result := GetEnvInt("NON_EXISTENT_VAR_XYZ", 100); result != 100 {
		t.Errorf("expected default 100, got %d", result)
	}

	_ = os.Setenv("SCREEN_INVALID_INT_VAR", "not-a-number")
	defer func() { _ = os.Unsetenv("SCREEN_INVALID_INT_VAR") }()
	if result := GetEnvInt("INVALID_INT_VAR", 50); result != 50 {
		t.Errorf("expected default 50 for invalid int, got %d", result)
	}
}
