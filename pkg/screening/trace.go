package screening

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Phase names one of the stages a scoring run passes through (spec §4.11).
type Phase string

const (
	PhaseNormalization     Phase = "NORMALIZATION"
	PhaseTokenization      Phase = "TOKENIZATION"
	PhasePhoneticFilter    Phase = "PHONETIC_FILTER"
	PhaseNameComparison    Phase = "NAME_COMPARISON"
	PhaseAltNameComparison Phase = "ALT_NAME_COMPARISON"
	PhaseGovIDComparison   Phase = "GOV_ID_COMPARISON"
	PhaseCryptoComparison  Phase = "CRYPTO_COMPARISON"
	PhaseContactComparison Phase = "CONTACT_COMPARISON"
	PhaseAddressComparison Phase = "ADDRESS_COMPARISON"
	PhaseDateComparison    Phase = "DATE_COMPARISON"
	PhaseAggregation       Phase = "AGGREGATION"
	PhaseFiltering         Phase = "FILTERING"
)

// TraceEntry records one event of a scoring run: either a bare record() of a
// phase/description, or the outcome of a traced() comparator call. Error
// holds the recovered panic text when a comparator failed under Traced
// (spec §7 ComparisonFailure); it is empty on success.
type TraceEntry struct {
	Phase    Phase
	Label    string
	Duration time.Duration
	Piece    *ScorePiece
	Data     interface{}
	Error    string
	Metadata map[string]interface{}
}

// String renders the entry the way the debug CLI prints it, using
// go-humanize for a readable duration.
func (t TraceEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s (%s)", t.Phase, t.Label, humanizeDuration(t.Duration))
	if t.Piece != nil {
		fmt.Fprintf(&b, " score=%.4f weight=%.2f matched=%v", t.Piece.Score, t.Piece.Weight, t.Piece.Matched)
	}
	if t.Error != "" {
		fmt.Fprintf(&b, " error=%q", t.Error)
	}
	return b.String()
}

func humanizeDuration(d time.Duration) string {
	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
	return humanize.SI(d.Seconds(), "s")
}

// TraceResult is the immutable tuple ToTrace returns (spec §4.11/§6):
// (sessionId, durationMs, events[], metadata, breakdown).
type TraceResult struct {
	SessionID  string
	DurationMs float64
	Events     []TraceEntry
	Metadata   map[string]interface{}
	Breakdown  *ScoreBreakdown
}

// newSessionID mints a session identifier for an enabled ScoringContext.
func newSessionID() string {
	return uuid.NewString()
}

// ScoringContext is the zero-overhead-when-disabled observability seam
// threaded through comparators and the scorer (spec §4.11). Traced runs fn
// under a recover() boundary and, only when tracing is enabled, records its
// duration and the piece it returned; the returned bool is false iff fn
// returned a non-nil error or panicked (used by comparators that signal an
// early exit via error rather than a sentinel score, and by the
// ComparisonFailure degrade-to-zero path).
type ScoringContext interface {
	Traced(phase Phase, label string, fn func() (ScorePiece, error)) (ScorePiece, bool)
	Record(phase Phase, description string)
	RecordData(phase Phase, description string, lazyData func() interface{})
	WithMetadata(key string, value interface{})
	WithBreakdown(b ScoreBreakdown)
	IsEnabled() bool
	ToTrace() TraceResult
}

type disabledContext struct{}

var disabledSingleton ScoringContext = disabledContext{}

// Disabled returns the shared zero-overhead ScoringContext: every operation
// is a no-op, and lazyData passed to RecordData is never invoked.
func Disabled() ScoringContext { return disabledSingleton }

func (disabledContext) Traced(_ Phase, _ string, fn func() (ScorePiece, error)) (piece ScorePiece, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	p, err := fn()
	return p, err == nil
}

func (disabledContext) Record(Phase, string)                           {}
func (disabledContext) RecordData(Phase, string, func() interface{})   {}
func (disabledContext) WithMetadata(string, interface{})               {}
func (disabledContext) WithBreakdown(ScoreBreakdown)                   {}
func (disabledContext) IsEnabled() bool                                { return false }
func (disabledContext) ToTrace() TraceResult                           { return TraceResult{} }

// recordingContext is the enabled implementation: it times every Traced
// call, accumulates bare record()/recordData() events, and captures a final
// ScoreBreakdown for later inspection (debug CLI, tests).
type recordingContext struct {
	sessionID string
	start     time.Time
	mu        sync.Mutex
	entries   []TraceEntry
	metadata  map[string]interface{}
	breakdown *ScoreBreakdown
}

// NewRecorder constructs an enabled ScoringContext identified by sessionID,
// satisfying spec §6's ScoringContext.enabled(sessionId) constructor.
func NewRecorder(sessionID string) ScoringContext {
	if sessionID == "" {
		sessionID = newSessionID()
	}
	return &recordingContext{sessionID: sessionID, start: time.Now(), metadata: make(map[string]interface{})}
}

func (r *recordingContext) Traced(phase Phase, label string, fn func() (ScorePiece, error)) (piece ScorePiece, ok bool) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		entry := TraceEntry{Phase: phase, Label: label, Duration: elapsed}
		if rec := recover(); rec != nil {
			entry.Error = fmt.Sprint(rec)
			ok = false
			piece = zeroPiece(string(phase))
			log.Warnw("traced comparator panicked, degrading to zero piece",
				"phase", phase, "err", newComparisonFailure(string(phase), rec))
		} else if ok {
			p := piece
			entry.Piece = &p
		}
		r.mu.Lock()
		r.entries = append(r.entries, entry)
		r.mu.Unlock()
	}()

	p, err := fn()
	return p, err == nil
}

func (r *recordingContext) Record(phase Phase, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, TraceEntry{Phase: phase, Label: description})
}

// RecordData appends an event carrying lazily-computed data: lazyData is
// invoked exactly once, only because this path is enabled (spec §4.11 "data
// passed into record MUST be supplied lazily").
func (r *recordingContext) RecordData(phase Phase, description string, lazyData func() interface{}) {
	var data interface{}
	if lazyData != nil {
		data = lazyData()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, TraceEntry{Phase: phase, Label: description, Data: data})
}

func (r *recordingContext) WithMetadata(key string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata[key] = value
}

func (r *recordingContext) WithBreakdown(b ScoreBreakdown) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakdown = &b
}

func (r *recordingContext) IsEnabled() bool { return true }

func (r *recordingContext) ToTrace() TraceResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]TraceEntry, len(r.entries))
	copy(events, r.entries)
	metadata := make(map[string]interface{}, len(r.metadata))
	for k, v := range r.metadata {
		metadata[k] = v
	}
	return TraceResult{
		SessionID:  r.sessionID,
		DurationMs: float64(time.Since(r.start)) / float64(time.Millisecond),
		Events:     events,
		Metadata:   metadata,
		Breakdown:  r.breakdown,
	}
}
