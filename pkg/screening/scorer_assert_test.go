package screening

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braidfi/sanctionscreen/pkg/config"
)

// Richer composite-struct assertions on ScoreBreakdown and trace events,
// using testify as the rest of the pack does for multi-field results.
func TestScorerBreakdownFieldsAndTrace(t *testing.T) {
	cfg := config.New()
	scorer, err := NewEntityScorer(cfg)
	require.NoError(t, err, "NewEntityScorer should not fail with a default config")

	query := preparedPerson("q", "vladimir putin", []string{"vladimir", "putin"})
	candidate := preparedPerson("c", "vladimir putin", []string{"vladimir", "putin"})
	candidate.GovernmentIDs = []GovernmentID{{Type: IDPassport, Identifier: "AB123", Country: "RU"}}
	query.GovernmentIDs = []GovernmentID{{Type: IDPassport, Identifier: "AB123", Country: "RU"}}
	candidate.Addresses = []Address{{City: "Moscow", Country: "russia"}}
	query.Addresses = []Address{{City: "Moscow", Country: "russia"}}

	rec := NewRecorder(newSessionID())
	bd := scorer.Score(query, candidate, rec)

	assert.Greater(t, bd.TotalWeightedScore, 0.85, "strong multi-field match should score high")
	assert.True(t, bd.HighConfidence, "exact name+id+address match should be high confidence")
	assert.GreaterOrEqual(t, bd.MatchingTokens, 2, "both name tokens should match")
	assert.NotEmpty(t, bd.Pieces, "breakdown should retain individual score pieces")
	assert.Greater(t, bd.NameScore, 0.0, "name score should be populated")
	assert.Greater(t, bd.GovernmentIDScore, 0.0, "government ID score should be populated")

	trace := rec.ToTrace()
	require.NotEmpty(t, trace.SessionID, "a recording context should carry a session id")
	require.NotEmpty(t, trace.Events, "a recording context should capture at least one phase")
	require.NotNil(t, trace.Breakdown, "ToTrace should carry the final breakdown")
	assert.Equal(t, bd.TotalWeightedScore, trace.Breakdown.TotalWeightedScore, "traced breakdown should match the returned breakdown")

	var sawNamePhase bool
	for _, entry := range trace.Events {
		if entry.Phase == PhaseNameComparison {
			sawNamePhase = true
			assert.NotNil(t, entry.Piece, "name comparison trace entry should carry its ScorePiece")
		}
		assert.GreaterOrEqual(t, entry.Duration, time.Duration(0), "trace duration should never be negative")
	}
	assert.True(t, sawNamePhase, "trace should include a name comparison phase")
}
