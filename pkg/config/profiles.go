package config

// Named presets over the §4.10 tunables, analogous to the teacher's
// DetectionProfile pattern (pkg/ml/detection_profile.go: ProfileStrict /
// ProfileBalanced / ProfilePermissive). These are a convenience on top of
// Config, not a replacement for it — every field here maps directly to a
// Config field.

// Strict softens the length, letter and unmatched-token penalties (lower
// penalty weights, a higher first-letter multiplier) for screening contexts
// that would rather over-match (surface a borderline name for manual
// review) than under-match a sanctioned entity.
func Strict() *Config {
	c := New()
	c.LengthDifferencePenaltyWeight = 0.2
	c.DifferentLetterPenaltyWeight = 0.95
	c.UnmatchedIndexTokenWeight = 0.10
	return c
}

// Balanced returns the documented defaults from spec.md §4.10.
func Balanced() *Config {
	return New()
}

// Lenient raises the length, letter and unmatched-token penalties (higher
// penalty weights, a lower first-letter multiplier), trading recall for fewer low-value
// near-misses surfaced to a reviewer — useful for exploratory search UIs
// layered on top of the core (out of this module's scope, but the profile
// is still a reasonable knob to expose).
func Lenient() *Config {
	c := New()
	c.LengthDifferencePenaltyWeight = 0.4
	c.DifferentLetterPenaltyWeight = 0.85
	c.UnmatchedIndexTokenWeight = 0.20
	return c
}
