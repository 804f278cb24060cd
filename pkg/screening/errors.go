package screening

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the taxonomy in spec §7. Use errors.Is against these,
// or errors.Cause (pkg/errors) to unwrap the stack-carrying detail.
var (
	// ErrConfigurationMissing is fatal at construction time: a scorer or
	// JW-family component was built without required tunables.
	ErrConfigurationMissing = errors.New("screening: configuration missing")

	// ErrInvalidEntity marks a parser-produced entity that fails an
	// invariant (e.g. type/detail mismatch). The caller should log and skip.
	ErrInvalidEntity = errors.New("screening: invalid entity")

	// ErrNormalizationFailure marks malformed unicode/encoding in a single
	// field. Callers treat the field as empty and continue.
	ErrNormalizationFailure = errors.New("screening: normalization failure")

	// ErrComparisonFailure marks a panic/error recovered from a single
	// per-field comparator. The piece contributes (0, weight=0, matched=false).
	ErrComparisonFailure = errors.New("screening: comparison failure")

	// ErrCancelled is returned when a search was cooperatively cancelled
	// mid-flight; the caller receives a partial, untraced result.
	ErrCancelled = errors.New("screening: search cancelled")

	// ErrServiceUnavailable surfaces to the caller only when the entire
	// search cannot proceed (e.g. the index is empty).
	ErrServiceUnavailable = errors.New("screening: service unavailable")
)

// newInvalidEntity wraps ErrInvalidEntity with a reason, keeping a stack
// trace via pkg/errors so InvalidEntity rejections are diagnosable in logs.
func newInvalidEntity(reason string) error {
	return errors.Wrap(ErrInvalidEntity, reason)
}

// newConfigurationMissing wraps ErrConfigurationMissing with the name of
// the missing/invalid tunable.
func newConfigurationMissing(key string) error {
	return errors.Wrapf(ErrConfigurationMissing, "key %q", key)
}

// newNormalizationFailure wraps ErrNormalizationFailure with the offending
// field name and reason, for normalizeFieldSafe's UTF-8 validity check.
func newNormalizationFailure(field, reason string) error {
	return errors.Wrapf(ErrNormalizationFailure, "field %q: %s", field, reason)
}

// newComparisonFailure wraps ErrComparisonFailure with the piece type and
// recovered panic value, for the recover() boundaries in safeCompare and
// recordingContext.Traced.
func newComparisonFailure(pieceType string, recovered interface{}) error {
	return errors.Wrapf(ErrComparisonFailure, "piece %q: %v", pieceType, recovered)
}
