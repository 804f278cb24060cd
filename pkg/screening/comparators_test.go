package screening

import (
	"testing"

	"github.com/braidfi/sanctionscreen/pkg/config"
)

func preparedFor(name string) *Entity {
	toks := tokenize(lowerAndStripPunctuation(name))
	return &Entity{
		Name: name,
		Prepared: &PreparedFields{
			PrimaryNameTokens: toks,
			NormalizedAltNames: NewStringSet(),
		},
	}
}

func TestCompareNamesExactMatch(t *testing.T) {
	cfg := config.New()
	q := preparedFor("Vladimir Putin")
	c := preparedFor("Vladimir Putin")
	piece, _, ok := compareNames(q, c, cfg)
	if !ok {
		t.Fatal("compareNames() ok = false, want true for exact match")
	}
	if piece.Score < 0.99 {
		t.Errorf("compareNames() score = %.4f, want ~1.0", piece.Score)
	}
}

func TestCompareNamesEarlyExitOnUnrelated(t *testing.T) {
	cfg := config.New()
	q := preparedFor("John Smith")
	c := preparedFor("Zhang Wei")
	_, _, ok := compareNames(q, c, cfg)
	if ok {
		t.Error("compareNames() ok = true, want false for unrelated names")
	}
}

func TestCompareNamesExactAltNameCrossMatch(t *testing.T) {
	cfg := config.New()
	q := preparedFor("Vlad Putin")
	q.Prepared.NormalizedAltNames.Add("vladimir putin")
	c := preparedFor("Vladimir Putin")
	c.Prepared.NormalizedPrimaryName = "vladimir putin"

	_, altPiece, ok := compareNames(q, c, cfg)
	if !ok {
		t.Fatal("compareNames() ok = false, want true")
	}
	if altPiece.PieceType != "altName" || altPiece.Weight != 0 {
		t.Fatalf("altPiece = %+v, want PieceType=altName Weight=0", altPiece)
	}
	if altPiece.Score < 0.999 {
		t.Errorf("altPiece.Score = %.4f, want 1.0 on exact NormalizedAltNames collision", altPiece.Score)
	}
}

func TestAffiliationTypeScoreExactRelatedMismatch(t *testing.T) {
	if s := affiliationTypeScore("owner", "owner"); s != 0.15 {
		t.Errorf("exact match = %.2f, want 0.15", s)
	}
	if s := affiliationTypeScore("owner", "shareholder"); s != 0.08 {
		t.Errorf("same-group match = %.2f, want 0.08", s)
	}
	if s := affiliationTypeScore("owner", "director"); s != -0.15 {
		t.Errorf("cross-group mismatch = %.2f, want -0.15", s)
	}
	if s := affiliationTypeScore("owner", "unknown type"); s != 0 {
		t.Errorf("unknown type = %.2f, want 0", s)
	}
}

func TestCompareTitlesExpandsAbbreviations(t *testing.T) {
	cfg := config.New()
	piece := compareTitles([]string{"CEO"}, []string{"Chief Executive Officer"}, cfg)
	if piece.Score < 0.9 {
		t.Errorf("compareTitles(abbreviation) score = %.4f, want high score", piece.Score)
	}
}

func TestAffiliationGroupTaxonomy(t *testing.T) {
	if affiliationGroup("owner") != affiliationGroup("shareholder") {
		t.Error("owner and shareholder should share the ownership group")
	}
	if affiliationGroup("owner") == affiliationGroup("director") {
		t.Error("owner (ownership) and director (leadership) should be different groups")
	}
	if affiliationGroup("unknown-type") != "" {
		t.Error("an unrecognized affiliation type should map to the empty group")
	}
}

func TestCompareAffiliationsNoOverlap(t *testing.T) {
	cfg := config.New()
	query := []Affiliation{{Name: "Acme Holdings", Type: "owner"}}
	unrelated := []Affiliation{{Name: "Zenith Trading", Type: "director"}}

	piece := compareAffiliations(query, unrelated, cfg)
	if piece.Score > 0.5 {
		t.Errorf("compareAffiliations(unrelated names) score = %.4f, want low", piece.Score)
	}

	empty := compareAffiliations(nil, unrelated, cfg)
	if empty.Score != 0 || empty.Matched {
		t.Errorf("compareAffiliations(no query affiliations) = %+v, want zero piece", empty)
	}
}

func TestCompareAddressesWeightedFields(t *testing.T) {
	cfg := config.New()
	q := []Address{{Line1: "123 Main St", City: "Springfield", Country: "united states"}}
	c := []Address{{Line1: "123 Main St", City: "Springfield", Country: "united states"}}
	piece := compareAddresses(q, c, cfg)
	if piece.Score < 0.9 {
		t.Errorf("compareAddresses(identical) score = %.4f, want high score", piece.Score)
	}
}

func TestCompareDatesExactAndTransposition(t *testing.T) {
	exact := compareDates(&Date{Year: 1980, Month: 5, Day: 12}, &Date{Year: 1980, Month: 5, Day: 12})
	if !exact.Exact {
		t.Error("compareDates(identical) Exact = false, want true")
	}

	transposed := compareDates(&Date{Year: 1980, Month: 5, Day: 12}, &Date{Year: 1980, Month: 5, Day: 21})
	if transposed.Score <= 0.5 {
		t.Errorf("compareDates(digit transposition 12/21) score = %.4f, want a transposition bonus", transposed.Score)
	}
}

func TestCompareLifeDatesPenalizesImplausibleSpan(t *testing.T) {
	queryBirth := &Date{Year: 1950}
	queryDeath := &Date{Year: 2000}
	candBirth := &Date{Year: 1950}
	candDeath := &Date{Year: 2020}

	piece := compareLifeDates(queryBirth, queryDeath, candBirth, candDeath)
	unpenalized := compareLifeDates(queryBirth, queryDeath, &Date{Year: 1950}, &Date{Year: 2001})
	if piece.Score >= unpenalized.Score {
		t.Errorf("implausible lifespan ratio not penalized: penalized=%.4f plausible=%.4f", piece.Score, unpenalized.Score)
	}
}

func TestCompareExactIdentifiersCountryAgreement(t *testing.T) {
	a := GovernmentID{Identifier: "AB-123", Country: "US"}
	b := GovernmentID{Identifier: "ab123", Country: "usa"}
	if got := compareExactIdentifiers(a, b); got != 1.0 {
		t.Errorf("compareExactIdentifiers(matching country alias) = %.4f, want 1.0", got)
	}

	c := GovernmentID{Identifier: "AB-123", Country: "France"}
	if got := compareExactIdentifiers(a, c); got != 0.7 {
		t.Errorf("compareExactIdentifiers(differing country) = %.4f, want 0.7", got)
	}
}

func TestCompareCryptoAddressesRequiresCurrencyAgreementWhenSpecified(t *testing.T) {
	q := []CryptoAddress{{Currency: "BTC", Address: "1abc"}}
	mismatchCurrency := []CryptoAddress{{Currency: "ETH", Address: "1abc"}}
	noCurrency := []CryptoAddress{{Address: "1abc"}}

	if compareCryptoAddresses(q, mismatchCurrency).Matched {
		t.Error("compareCryptoAddresses() matched despite disagreeing currencies")
	}
	if !compareCryptoAddresses(q, noCurrency).Matched {
		t.Error("compareCryptoAddresses() did not match when one side omits currency")
	}
}

func TestCompareContactCaseInsensitive(t *testing.T) {
	q := ContactInfo{EmailAddress: "Person@Example.com"}
	c := ContactInfo{EmailAddress: "person@example.com"}
	piece := compareContact(q, c)
	if !piece.Exact {
		t.Errorf("compareContact(case-insensitive email match) Exact = false, piece=%+v", piece)
	}
}

func TestCompareAssetIdentifiersVessel(t *testing.T) {
	fields := map[string][2]string{
		"imo":      {"IMO-1234567", "imo1234567"},
		"callsign": {"ABCD", "WXYZ"},
	}
	piece := compareAssetIdentifiers(fields, vesselIDWeights)
	if piece.Score <= 0 || piece.Score >= 1 {
		t.Errorf("compareAssetIdentifiers() score = %.4f, want a partial match between 0 and 1", piece.Score)
	}
}
