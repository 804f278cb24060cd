package screening

import (
	"strings"
	"testing"

	"github.com/braidfi/sanctionscreen/pkg/config"
)

func preparedPerson(id, name string, tokens []string) *Entity {
	e := &Entity{ID: id, Name: name, Type: TypePerson, Source: SourceOFACSDN, Person: &PersonDetail{}}
	e.Prepared = &PreparedFields{
		NormalizedPrimaryName: name,
		NormalizedAltNames:    NewStringSet(),
		PrimaryNameTokens:     tokens,
		NameCombinations:      generateWordCombinations(tokens),
	}
	return e
}

func TestScorerHighConfidenceOnStrongNameMatch(t *testing.T) {
	cfg := config.New()
	scorer, err := NewEntityScorer(cfg)
	if err != nil {
		t.Fatalf("NewEntityScorer() error = %v", err)
	}

	query := preparedPerson("q", "vladimir putin", []string{"vladimir", "putin"})
	candidate := preparedPerson("c", "vladimir putin", []string{"vladimir", "putin"})
	candidate.GovernmentIDs = []GovernmentID{{Type: IDPassport, Identifier: "AB123", Country: "RU"}}
	query.GovernmentIDs = []GovernmentID{{Type: IDPassport, Identifier: "AB123", Country: "RU"}}
	candidate.Addresses = []Address{{City: "Moscow", Country: "russia"}}
	query.Addresses = []Address{{City: "Moscow", Country: "russia"}}

	bd := scorer.Score(query, candidate, Disabled())
	if bd.TotalWeightedScore < 0.85 {
		t.Errorf("TotalWeightedScore = %.4f, want a strong match above 0.85", bd.TotalWeightedScore)
	}
	if !bd.HighConfidence {
		t.Errorf("HighConfidence = false, want true for an exact multi-field match")
	}
}

func TestScorerEarlyExitOnUnrelatedNames(t *testing.T) {
	cfg := config.New()
	scorer, _ := NewEntityScorer(cfg)

	query := preparedPerson("q", "john smith", []string{"john", "smith"})
	candidate := preparedPerson("c", "zhang wei", []string{"zhang", "wei"})

	bd := scorer.Score(query, candidate, Disabled())
	if bd.TotalWeightedScore > 0.4 {
		t.Errorf("TotalWeightedScore = %.4f, want a low score for unrelated names", bd.TotalWeightedScore)
	}
	if bd.HighConfidence {
		t.Errorf("HighConfidence = true, want false for an early-exit name mismatch")
	}
}

func TestScorerDispatchesByEntityType(t *testing.T) {
	cfg := config.New()
	scorer, _ := NewEntityScorer(cfg)

	query := &Entity{
		ID: "q", Name: "sea pearl", Type: TypeVessel, Source: SourceEUCSL,
		Vessel: &VesselDetail{IMONumber: "9000001"},
		Prepared: &PreparedFields{
			PrimaryNameTokens: []string{"sea", "pearl"},
			NormalizedAltNames: NewStringSet(),
		},
	}
	candidate := &Entity{
		ID: "c", Name: "sea pearl", Type: TypeVessel, Source: SourceEUCSL,
		Vessel: &VesselDetail{IMONumber: "9000001"},
		Prepared: &PreparedFields{
			PrimaryNameTokens: []string{"sea", "pearl"},
			NormalizedAltNames: NewStringSet(),
		},
	}

	bd := scorer.Score(query, candidate, Disabled())
	if bd.TotalWeightedScore == 0 {
		t.Errorf("TotalWeightedScore = 0, want a positive score for matching vessel IMO + name")
	}
}

func TestNewEntityScorerRequiresConfig(t *testing.T) {
	if _, err := NewEntityScorer(nil); err == nil {
		t.Fatal("NewEntityScorer(nil) error = nil, want ErrConfigurationMissing")
	}
}

func TestScoreBreakdownStringAndCSVRow(t *testing.T) {
	bd := ScoreBreakdown{TotalWeightedScore: 0.9123, NameScore: 0.95, HighConfidence: true}

	s := bd.String()
	if !strings.Contains(s, "total=0.9123") || !strings.Contains(s, "highConfidence=true") {
		t.Errorf("String() = %q, want it to contain total and highConfidence fields", s)
	}

	row, err := bd.CSVRow()
	if err != nil {
		t.Fatalf("CSVRow() error = %v", err)
	}
	fields := strings.Split(row, ",")
	if len(fields) != 12 {
		t.Fatalf("CSVRow() produced %d fields, want 12", len(fields))
	}
	if fields[0] != "0.9123" {
		t.Errorf("CSVRow()[0] = %q, want %q", fields[0], "0.9123")
	}
}
