// Package config loads the tunable algorithm parameters for the matching
// engine from the environment, with typed defaults. Grounded on the
// teacher's GetEnvInt/clampInt helpers (pkg/ml/scorer_config.go,
// pkg/config/config_test.go) and its DetectionProfile preset pattern
// (pkg/ml/detection_profile.go).
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every tunable named in spec.md §4.10. All fields have
// defaults; construction never fails on a missing environment variable —
// only an explicitly-set, unparseable value is an error (see Load).
type Config struct {
	// JaroWinklerBoostThreshold is the Winkler-boost floor on base Jaro
	// similarity (spec §4.4).
	JaroWinklerBoostThreshold float64
	// JaroWinklerPrefixSize caps the leading-character run Winkler scores.
	JaroWinklerPrefixSize int
	// LengthDifferenceCutoffFactor is the length-ratio floor below which
	// the custom JW length penalty applies.
	LengthDifferenceCutoffFactor float64
	// LengthDifferencePenaltyWeight is the multiplicative length penalty.
	LengthDifferencePenaltyWeight float64
	// DifferentLetterPenaltyWeight is applied when first characters differ.
	DifferentLetterPenaltyWeight float64
	// ExactMatchFavoritism is the bonus used by jaroWinklerWithFavoritism.
	ExactMatchFavoritism float64
	// UnmatchedIndexTokenWeight penalizes unmatched indexed tokens in
	// bestPairJaroWinkler.
	UnmatchedIndexTokenWeight float64
	// PhoneticFilteringDisabled skips the Soundex prefilter entirely.
	PhoneticFilteringDisabled bool
	// KeepStopwords disables stopword removal during normalization.
	KeepStopwords bool
	// Overlay carries deployment-site additions to the company-suffix and
	// stopword tables (spec.md §4.2/§4.5 "implementation may extend these
	// lists"). Never nil after New()/Load().
	Overlay *Overlay
}

// Default tunable values, per spec.md §4.10.
const (
	DefaultJaroWinklerBoostThreshold     = 0.7
	DefaultJaroWinklerPrefixSize         = 4
	DefaultLengthDifferenceCutoffFactor  = 0.9
	DefaultLengthDifferencePenaltyWeight = 0.3
	DefaultDifferentLetterPenaltyWeight  = 0.9
	DefaultExactMatchFavoritism          = 0.0
	DefaultUnmatchedIndexTokenWeight     = 0.15
	DefaultPhoneticFilteringDisabled     = false
	DefaultKeepStopwords                 = false
)

// New returns a Config populated entirely with defaults.
func New() *Config {
	return &Config{
		JaroWinklerBoostThreshold:     DefaultJaroWinklerBoostThreshold,
		JaroWinklerPrefixSize:         DefaultJaroWinklerPrefixSize,
		LengthDifferenceCutoffFactor:  DefaultLengthDifferenceCutoffFactor,
		LengthDifferencePenaltyWeight: DefaultLengthDifferencePenaltyWeight,
		DifferentLetterPenaltyWeight:  DefaultDifferentLetterPenaltyWeight,
		ExactMatchFavoritism:          DefaultExactMatchFavoritism,
		UnmatchedIndexTokenWeight:     DefaultUnmatchedIndexTokenWeight,
		PhoneticFilteringDisabled:     DefaultPhoneticFilteringDisabled,
		KeepStopwords:                 DefaultKeepStopwords,
		Overlay:                       &Overlay{},
	}
}

// envPrefix prefixes every recognized environment variable, e.g.
// SCREEN_JARO_WINKLER_BOOST_THRESHOLD.
const envPrefix = "SCREEN_"

// Load builds a Config from defaults overridden by environment variables.
// An environment variable that is set but fails to parse as its expected
// type returns a *ConfigError rather than silently
// falling back — the caller is expected to treat this as fatal-at-startup
// per spec.md §7's ConfigurationMissing class.
func Load() (*Config, error) {
	c := New()

	var err error
	if c.JaroWinklerBoostThreshold, err = getEnvFloat("JARO_WINKLER_BOOST_THRESHOLD", c.JaroWinklerBoostThreshold); err != nil {
		return nil, err
	}
	if c.JaroWinklerPrefixSize, err = getEnvInt("JARO_WINKLER_PREFIX_SIZE", c.JaroWinklerPrefixSize); err != nil {
		return nil, err
	}
	c.JaroWinklerPrefixSize = clampInt(c.JaroWinklerPrefixSize, 0, 32)
	if c.LengthDifferenceCutoffFactor, err = getEnvFloat("LENGTH_DIFFERENCE_CUTOFF_FACTOR", c.LengthDifferenceCutoffFactor); err != nil {
		return nil, err
	}
	if c.LengthDifferencePenaltyWeight, err = getEnvFloat("LENGTH_DIFFERENCE_PENALTY_WEIGHT", c.LengthDifferencePenaltyWeight); err != nil {
		return nil, err
	}
	if c.DifferentLetterPenaltyWeight, err = getEnvFloat("DIFFERENT_LETTER_PENALTY_WEIGHT", c.DifferentLetterPenaltyWeight); err != nil {
		return nil, err
	}
	if c.ExactMatchFavoritism, err = getEnvFloat("EXACT_MATCH_FAVORITISM", c.ExactMatchFavoritism); err != nil {
		return nil, err
	}
	if c.UnmatchedIndexTokenWeight, err = getEnvFloat("UNMATCHED_INDEX_TOKEN_WEIGHT", c.UnmatchedIndexTokenWeight); err != nil {
		return nil, err
	}
	if c.PhoneticFilteringDisabled, err = getEnvBool("PHONETIC_FILTERING_DISABLED", c.PhoneticFilteringDisabled); err != nil {
		return nil, err
	}
	if c.KeepStopwords, err = getEnvBool("KEEP_STOPWORDS", c.KeepStopwords); err != nil {
		return nil, err
	}

	overlayPath := os.Getenv(envPrefix + "OVERLAY_PATH")
	ov, err := LoadOverlay(overlayPath)
	if err != nil {
		return nil, err
	}
	c.Overlay = ov

	return c, nil
}

// Validate reports whether every tunable is within the range the
// Jaro-Winkler family and scorer assume. It is the explicit-failure path
// construction code should call before handing a Config to the scoring
// layer, matching spec.md §7's "refuse to start" ConfigurationMissing class.
func (c *Config) Validate() error {
	if c == nil {
		return newConfigError("config", "nil config")
	}
	if c.Overlay == nil {
		c.Overlay = &Overlay{}
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"JaroWinklerBoostThreshold", c.JaroWinklerBoostThreshold >= 0 && c.JaroWinklerBoostThreshold <= 1},
		{"JaroWinklerPrefixSize", c.JaroWinklerPrefixSize >= 0},
		{"LengthDifferenceCutoffFactor", c.LengthDifferenceCutoffFactor >= 0 && c.LengthDifferenceCutoffFactor <= 1},
		{"LengthDifferencePenaltyWeight", c.LengthDifferencePenaltyWeight >= 0 && c.LengthDifferencePenaltyWeight <= 1},
		{"DifferentLetterPenaltyWeight", c.DifferentLetterPenaltyWeight >= 0 && c.DifferentLetterPenaltyWeight <= 1},
		{"UnmatchedIndexTokenWeight", c.UnmatchedIndexTokenWeight >= 0 && c.UnmatchedIndexTokenWeight <= 1},
	}
	for _, chk := range checks {
		if !chk.ok {
			return newConfigError(chk.name, "out of range")
		}
	}
	return nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	raw, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, newConfigError(key, "not a float: "+raw)
	}
	return v, nil
}

// GetEnvInt reads an int environment variable, returning def if it is
// unset or set but unparseable; it never reports an error. Exported because
// callers assembling custom configs (e.g. availableFields overrides) reuse
// the same parse-with-default idiom.
func GetEnvInt(key string, def int) int {
	v, err := getEnvInt(key, def)
	if err != nil {
		return def
	}
	return v
}

func getEnvInt(key string, def int) (int, error) {
	raw, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newConfigError(key, "not an int: "+raw)
	}
	return v, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	raw, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, newConfigError(key, "not a bool: "+raw)
	}
	return v, nil
}

// clampInt restricts val to [min, max].
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
