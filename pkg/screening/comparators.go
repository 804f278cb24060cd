package screening

import (
	"strings"

	"github.com/braidfi/sanctionscreen/pkg/config"
)

// ScorePiece is a single comparator's contribution to the aggregate score
// (spec §4.6/glossary).
type ScorePiece struct {
	Score          float64
	Weight         float64
	Matched        bool
	Exact          bool
	FieldsCompared int
	PieceType      string
}

// zeroPiece returns a ScorePiece representing a comparator that had
// nothing to compare or failed (spec §7 ComparisonFailure): contributes
// (0, weight=0, matched=false).
func zeroPiece(pieceType string) ScorePiece {
	return ScorePiece{PieceType: pieceType}
}

// --- Name comparator (spec §4.6, weight 40) ---

const nameEarlyExitFloor = 0.4

// compareNames scores the primary name field and, separately, the alt-name
// cross product (namePiece and altPiece respectively). altPiece carries
// Weight 0 so it adds nothing to the weighted sum; its FieldsCompared still
// counts toward Coverage and, when Matched, it counts toward the matched-piece
// total that finalizeBreakdown checks. It surfaces the alt-name signal on
// ScoreBreakdown/trace.
// ok is false when the best achievable name score falls below
// nameEarlyExitFloor, signalling the candidate should be dropped before
// other comparators run.
func compareNames(query, candidate *Entity, cfg *config.Config) (namePiece, altPiece ScorePiece, ok bool) {
	namePiece.PieceType = "name"
	namePiece.Weight = 40
	altPiece.PieceType = "altName"
	altPiece.Weight = 0
	if query.Prepared == nil || candidate.Prepared == nil {
		return namePiece, altPiece, false
	}

	primaryScore := bestPairCombinationJaroWinkler(query.Prepared.PrimaryNameTokens, candidate.Prepared.PrimaryNameTokens, cfg)

	altScore := 0.0
	altCompared := false
	queryNameSets := append([][]string{query.Prepared.PrimaryNameTokens}, query.Prepared.AltNameTokens...)
	candidateNameSets := append([][]string{candidate.Prepared.PrimaryNameTokens}, candidate.Prepared.AltNameTokens...)
	for qi, q := range queryNameSets {
		for ci, c := range candidateNameSets {
			if qi == 0 && ci == 0 {
				continue // primary-vs-primary is already primaryScore
			}
			altCompared = true
			if s := bestPairJaroWinkler(q, c, cfg); s > altScore {
				altScore = s
			}
		}
	}

	// exactAltNameMatch uses the cached NormalizedAltNames set for a direct
	// normalized-string collision, independent of token-level fuzz, in
	// either cross direction (spec §4.5/§4.6).
	if exactAltNameMatch(query, candidate) {
		altScore = 1.0
		altCompared = true
	}

	var combined float64
	switch {
	case primaryScore > 0 && altScore > 0:
		combined = (primaryScore + altScore) / 2
	case primaryScore > 0:
		combined = primaryScore
	default:
		combined = altScore
	}

	namePiece.Score = clamp01(combined)
	namePiece.FieldsCompared = 1
	namePiece.Matched = namePiece.Score > 0
	namePiece.Exact = namePiece.Score >= 0.999

	if altCompared {
		altPiece.Score = clamp01(altScore)
		altPiece.FieldsCompared = 1
		altPiece.Matched = altPiece.Score > 0
		altPiece.Exact = altPiece.Score >= 0.999
	}

	if maxFloat(primaryScore, altScore) < nameEarlyExitFloor {
		return namePiece, altPiece, false
	}
	return namePiece, altPiece, true
}

// exactAltNameMatch reports whether either side's normalized primary name,
// or any of its normalized alt names, exactly matches an entry in the
// other side's NormalizedAltNames set (emirpasic/gods-backed StringSet).
func exactAltNameMatch(query, candidate *Entity) bool {
	qSet, cSet := query.Prepared.NormalizedAltNames, candidate.Prepared.NormalizedAltNames
	if qSet == nil || cSet == nil {
		return false
	}
	if name := query.Prepared.NormalizedPrimaryName; name != "" && cSet.Contains(name) {
		return true
	}
	if name := candidate.Prepared.NormalizedPrimaryName; name != "" && qSet.Contains(name) {
		return true
	}
	for _, v := range qSet.Values() {
		if cSet.Contains(v) {
			return true
		}
	}
	return false
}

// --- Title comparator (persons) ---

var titleAbbreviations = map[string]string{
	"ceo": "chief executive officer", "cfo": "chief financial officer",
	"coo": "chief operating officer", "pres": "president", "vp": "vice president",
	"dir": "director", "exec": "executive", "mgr": "manager", "sr": "senior",
	"jr": "junior", "asst": "assistant", "assoc": "associate", "tech": "technical",
	"admin": "administrator", "eng": "engineer", "dev": "developer",
}

// normalizeTitle lowercases, strips punctuation except hyphens, and
// collapses whitespace.
func normalizeTitle(title string) string {
	return lowerAndStripPunctuation(title)
}

func expandAbbreviations(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if expansion, ok := titleAbbreviations[t]; ok {
			out = append(out, strings.Fields(expansion)...)
			continue
		}
		out = append(out, t)
	}
	return out
}

const titleEarlyExit = 0.92

// compareTitles scores person title/role fields (spec §4.6).
func compareTitles(queryTitles, candidateTitles []string, cfg *config.Config) ScorePiece {
	piece := ScorePiece{PieceType: "title", Weight: 5}
	if len(queryTitles) == 0 || len(candidateTitles) == 0 {
		return piece
	}

	best := 0.0
	for _, qt := range queryTitles {
		qTokens := filterShort(expandAbbreviations(tokenize(normalizeTitle(qt))))
		for _, ct := range candidateTitles {
			cTokens := filterShort(expandAbbreviations(tokenize(normalizeTitle(ct))))
			if len(qTokens) == 0 || len(cTokens) == 0 {
				continue
			}
			s := bestPairJaroWinkler(qTokens, cTokens, cfg)
			diff := absInt(len(qTokens) - len(cTokens))
			s -= 0.1 * float64(diff)
			s = clamp01(s)
			if s > best {
				best = s
			}
			if best >= titleEarlyExit {
				break
			}
		}
		if best >= titleEarlyExit {
			break
		}
	}

	piece.Score = best
	piece.FieldsCompared = 1
	piece.Matched = best > 0
	piece.Exact = best >= 0.999
	return piece
}

func filterShort(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) >= 2 {
			out = append(out, t)
		}
	}
	return out
}

// --- Affiliation comparator (businesses/organizations) ---

var affiliationSuffixes = []string{"corporation", "incorporated", "inc", "ltd", "llc", "corp", "company"}

// affiliationTypeGroups implements a 4-group, 24-type taxonomy after spec
// §4.6 at a representative scale: ownership, control, association,
// leadership.
var affiliationTypeGroups = map[string]string{
	"owner": "ownership", "shareholder": "ownership", "parent": "ownership",
	"subsidiary": "ownership", "majority owner": "ownership", "beneficial owner": "ownership",

	"controlled by": "control", "controls": "control", "trustee": "control",
	"nominee": "control", "agent": "control", "manager": "control",

	"associate": "association", "partner": "association", "affiliate": "association",
	"member": "association", "family member": "association", "spouse": "association",

	"director": "leadership", "officer": "leadership", "ceo": "leadership",
	"chairman": "leadership", "president": "leadership", "founder": "leadership",
}

func affiliationGroup(t string) string {
	return affiliationTypeGroups[strings.ToLower(strings.TrimSpace(t))]
}

// affiliationTypeScore distinguishes exact (same specific type), related
// (same group, different specific type), and mismatch (known but
// different groups); an unknown type on either side contributes neither
// bonus nor penalty (spec §4.6).
func affiliationTypeScore(queryType, candidateType string) float64 {
	qGroup, cGroup := affiliationGroup(queryType), affiliationGroup(candidateType)
	if qGroup == "" || cGroup == "" {
		return 0
	}
	qType := strings.ToLower(strings.TrimSpace(queryType))
	cType := strings.ToLower(strings.TrimSpace(candidateType))
	if qType == cType {
		return 0.15
	}
	if qGroup == cGroup {
		return 0.08
	}
	return -0.15
}

func normalizeAffiliationName(name string) []string {
	toks := tokenize(lowerAndStripPunctuation(name))
	for {
		if len(toks) == 0 {
			break
		}
		last := toks[len(toks)-1]
		stripped := false
		for _, s := range affiliationSuffixes {
			if last == s {
				toks = toks[:len(toks)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return toks
}

// compareAffiliations scores the affiliation list of a business/org (spec
// §4.6): per-pair name+type score, aggregated with a squared-weight
// average that emphasizes quality matches (spec §9).
func compareAffiliations(query, candidate []Affiliation, cfg *config.Config) ScorePiece {
	piece := ScorePiece{PieceType: "affiliation", Weight: 8}
	if len(query) == 0 || len(candidate) == 0 {
		return piece
	}

	var sumCube, sumSquare float64
	var bestType float64
	compared := 0
	for _, q := range query {
		qTokens := normalizeAffiliationName(q.Name)
		for _, c := range candidate {
			cTokens := normalizeAffiliationName(c.Name)
			if len(qTokens) == 0 || len(cTokens) == 0 {
				continue
			}
			nameScore := bestPairJaroWinkler(qTokens, cTokens, cfg)
			typeScore := affiliationTypeScore(q.Type, c.Type)

			s := clamp01(nameScore + typeScore)
			sumCube += s * s * s
			sumSquare += s * s
			if typeScore > bestType {
				bestType = typeScore
			}
			compared++
		}
	}

	if compared == 0 || sumSquare == 0 {
		return piece
	}

	piece.Score = clamp01(sumCube / sumSquare)
	piece.FieldsCompared = compared
	piece.Matched = piece.Score >= 0.85
	piece.Exact = piece.Score >= 0.999
	return piece
}

// --- Address comparator ---

const addressEarlyExit = 0.92

// compareAddresses implements spec §4.6: per-field weighted sum over the
// best-matching candidate pair across both address lists.
func compareAddresses(query, candidate []Address, cfg *config.Config) ScorePiece {
	piece := ScorePiece{PieceType: "address", Weight: 10}
	if len(query) == 0 || len(candidate) == 0 {
		return piece
	}

	best := 0.0
	bestFields := 0
	for _, q := range query {
		for _, c := range candidate {
			s, fields := scoreAddressPair(q, c, cfg)
			if s > best {
				best = s
				bestFields = fields
			}
			if best >= addressEarlyExit {
				break
			}
		}
		if best >= addressEarlyExit {
			break
		}
	}

	piece.Score = best
	piece.FieldsCompared = bestFields
	piece.Matched = best > 0
	piece.Exact = best >= 0.999
	return piece
}

func scoreAddressPair(q, c Address, cfg *config.Config) (float64, int) {
	type field struct {
		weight float64
		score  float64
		has    bool
	}
	fuzzy := func(a, b string) (float64, bool) {
		if a == "" || b == "" {
			return 0, false
		}
		return bestPairJaroWinkler(tokenize(a), tokenize(b), cfg), true
	}
	exact := func(a, b string) (float64, bool) {
		if a == "" || b == "" {
			return 0, false
		}
		if strings.EqualFold(a, b) {
			return 1, true
		}
		return 0, true
	}

	fields := []field{}
	if s, ok := fuzzy(q.Line1, c.Line1); ok {
		fields = append(fields, field{5, s, true})
	}
	if s, ok := fuzzy(q.City, c.City); ok {
		fields = append(fields, field{4, s, true})
	}
	if s, ok := exact(q.Country, c.Country); ok {
		fields = append(fields, field{4, s, true})
	}
	if s, ok := exact(q.PostalCode, c.PostalCode); ok {
		fields = append(fields, field{3, s, true})
	}
	if s, ok := fuzzy(q.Line2, c.Line2); ok {
		fields = append(fields, field{2, s, true})
	}
	if s, ok := exact(q.State, c.State); ok {
		fields = append(fields, field{2, s, true})
	}

	var weightedSum, totalWeight float64
	compared := 0
	for _, f := range fields {
		weightedSum += f.score * f.weight
		totalWeight += f.weight
		compared++
	}
	if totalWeight == 0 {
		return 0, 0
	}
	return weightedSum / totalWeight, compared
}

// --- Date comparator ---

// compareDates implements spec §4.6, type-specific per the caller
// (persons use birth+death, businesses/orgs created+dissolved, vessels and
// aircraft built).
func compareDates(query, candidate *Date) ScorePiece {
	piece := ScorePiece{PieceType: "date", Weight: 15}
	if query == nil || candidate == nil {
		return piece
	}

	yearScore := scoreYear(query.Year, candidate.Year)
	monthScore := scoreMonth(query.Month, candidate.Month)
	dayScore := scoreDay(query.Day, candidate.Day)

	piece.Score = clamp01(0.4*yearScore + 0.3*monthScore + 0.3*dayScore)
	piece.FieldsCompared = 1
	piece.Matched = piece.Score > 0
	piece.Exact = query.Year == candidate.Year && query.Month == candidate.Month && query.Day == candidate.Day && query.Year != 0
	return piece
}

// compareLifeDates implements the person-specific birth/death logical
// validity rule of spec §4.6: illogical date pairs multiply the result
// by 0.5.
func compareLifeDates(queryBirth, queryDeath, candBirth, candDeath *Date) ScorePiece {
	birth := compareDates(queryBirth, candBirth)
	death := compareDates(queryDeath, candDeath)

	pieces := []ScorePiece{}
	if birth.FieldsCompared > 0 {
		pieces = append(pieces, birth)
	}
	if death.FieldsCompared > 0 {
		pieces = append(pieces, death)
	}
	if len(pieces) == 0 {
		return ScorePiece{PieceType: "date", Weight: 15}
	}

	var sum float64
	for _, p := range pieces {
		sum += p.Score
	}
	score := sum / float64(len(pieces))

	if !datesAreLogical(queryBirth, queryDeath, candBirth, candDeath) {
		score *= 0.5
	}

	return ScorePiece{
		PieceType:      "date",
		Weight:         15,
		Score:          clamp01(score),
		FieldsCompared: len(pieces),
		Matched:        score > 0,
		Exact:          score >= 0.999,
	}
}

// datesAreLogical implements spec §4.6: birth must precede death on each
// side, and the query/candidate lifespan ratio must not exceed 1.21 —
// catches a query and candidate that are both internally consistent but
// describe implausibly different lifespans for the same identity.
func datesAreLogical(queryBirth, queryDeath, candBirth, candDeath *Date) bool {
	for _, pair := range [][2]*Date{{queryBirth, queryDeath}, {candBirth, candDeath}} {
		b, d := pair[0], pair[1]
		if b != nil && d != nil && b.Year != 0 && d.Year != 0 && d.Year < b.Year {
			return false
		}
	}
	qSpan, qOK := lifeSpan(queryBirth, queryDeath)
	cSpan, cOK := lifeSpan(candBirth, candDeath)
	if !qOK || !cOK {
		return true
	}
	if qSpan == 0 || cSpan == 0 {
		return true
	}
	ratio := float64(qSpan) / float64(cSpan)
	if ratio < 1 {
		ratio = 1 / ratio
	}
	return ratio <= 1.21
}

// lifeSpan returns death.Year-birth.Year and whether both years are known
// and birth precedes death.
func lifeSpan(birth, death *Date) (int, bool) {
	if birth == nil || death == nil || birth.Year == 0 || death.Year == 0 {
		return 0, false
	}
	if death.Year < birth.Year {
		return 0, false
	}
	return death.Year - birth.Year, true
}

func scoreYear(q, c int) float64 {
	if q == 0 || c == 0 {
		return 0
	}
	diff := absInt(q - c)
	if diff == 0 {
		return 1
	}
	if diff <= 5 {
		return 1 - (float64(diff)/5)*0.5
	}
	return 0.2
}

func scoreMonth(q, c int) float64 {
	if q == 0 || c == 0 {
		return 0
	}
	if q == c {
		return 1
	}
	if (q == 1 && (c == 10 || c == 11 || c == 12)) || (c == 1 && (q == 10 || q == 11 || q == 12)) {
		return 0.7
	}
	diff := absInt(q - c)
	if diff <= 1 {
		return 1 - float64(diff)*0.3
	}
	return 0.2
}

func scoreDay(q, c int) float64 {
	if q == 0 || c == 0 {
		return 0
	}
	if q == c {
		return 1
	}
	if isDigitTransposition(q, c) {
		return 0.8
	}
	diff := absInt(q - c)
	if diff <= 3 {
		return 1 - (float64(diff)/3)*0.6
	}
	return 0.2
}

func isDigitTransposition(a, b int) bool {
	pairs := [][2]int{{1, 11}, {2, 22}, {12, 21}, {13, 31}, {24, 42}}
	for _, p := range pairs {
		if (a == p[0] && b == p[1]) || (a == p[1] && b == p[0]) {
			return true
		}
	}
	return false
}

// --- Exact identifier comparator ---

// compareExactIdentifiers implements spec §4.6: both normalized, equal ->
// 1.0 scaled by country agreement (1.0 both match, 0.9 one missing, 0.7
// differ), else 0. Symmetric in its arguments (spec §8 property 7).
func compareExactIdentifiers(a, b GovernmentID) float64 {
	na := normalizeIdentifier(a.Identifier)
	if na == "" || na != normalizeIdentifier(b.Identifier) {
		return 0
	}
	ca, cb := normalizeCountry(a.Country), normalizeCountry(b.Country)
	switch {
	case ca == "" || cb == "":
		return 0.9
	case ca == cb:
		return 1.0
	default:
		return 0.7
	}
}

func compareGovernmentIDs(query, candidate []GovernmentID) ScorePiece {
	piece := ScorePiece{PieceType: "governmentId", Weight: 15}
	if len(query) == 0 || len(candidate) == 0 {
		return piece
	}
	best := 0.0
	compared := 0
	for _, q := range query {
		for _, c := range candidate {
			if q.Type != c.Type {
				continue
			}
			compared++
			if s := compareExactIdentifiers(q, c); s > best {
				best = s
			}
		}
	}
	piece.Score = best
	piece.FieldsCompared = compared
	piece.Matched = best > 0
	piece.Exact = best >= 1.0
	return piece
}

// assetIdentifierWeights are the per-asset-type weighted-average weights
// of spec §4.6 for vessel/aircraft identifier fields.
var vesselIDWeights = map[string]float64{"imo": 15, "callsign": 12, "mmsi": 12}
var aircraftIDWeights = map[string]float64{"serialnumber": 15, "icao": 12}

// compareAssetIdentifiers computes the weighted average over matching
// vessel/aircraft identifier fields that are present on both sides.
func compareAssetIdentifiers(fields map[string][2]string, weights map[string]float64) ScorePiece {
	piece := ScorePiece{PieceType: "assetId", Weight: 15}
	var weightedSum, totalWeight float64
	compared := 0
	for name, pair := range fields {
		q, c := pair[0], pair[1]
		if q == "" || c == "" {
			continue
		}
		w, ok := weights[name]
		if !ok {
			continue
		}
		score := 0.0
		if normalizeIdentifier(q) == normalizeIdentifier(c) {
			score = 1.0
		}
		weightedSum += score * w
		totalWeight += w
		compared++
	}
	if totalWeight == 0 {
		return piece
	}
	piece.Score = weightedSum / totalWeight
	piece.FieldsCompared = compared
	piece.Matched = piece.Score > 0
	piece.Exact = piece.Score >= 0.999
	return piece
}

// --- Crypto comparator ---

// compareCryptoAddresses implements spec §4.6: if both sides specify a
// currency, both currency and address must match; if either omits a
// currency, address equality alone suffices. Empty addresses are skipped.
func compareCryptoAddresses(query, candidate []CryptoAddress) ScorePiece {
	piece := ScorePiece{PieceType: "crypto", Weight: 10}
	if len(query) == 0 || len(candidate) == 0 {
		return piece
	}

	matched := false
	compared := 0
	for _, q := range query {
		if q.Address == "" {
			continue
		}
		for _, c := range candidate {
			if c.Address == "" {
				continue
			}
			compared++
			addrMatch := strings.EqualFold(q.Address, c.Address)
			if q.Currency == "" || c.Currency == "" {
				if addrMatch {
					matched = true
				}
				continue
			}
			if addrMatch && strings.EqualFold(q.Currency, c.Currency) {
				matched = true
			}
		}
	}

	if compared == 0 {
		return piece
	}
	piece.FieldsCompared = compared
	piece.Matched = matched
	if matched {
		piece.Score = 1
		piece.Exact = true
	}
	return piece
}

// --- Contact comparator ---

// compareContact implements spec §4.6: case-insensitive equality on email,
// phone, fax, averaged over fields present on both sides.
func compareContact(query, candidate ContactInfo) ScorePiece {
	piece := ScorePiece{PieceType: "contact", Weight: 5}

	type pair struct{ a, b string }
	pairs := []pair{
		{query.EmailAddress, candidate.EmailAddress},
		{normalizePhone(query.PhoneNumber), normalizePhone(candidate.PhoneNumber)},
		{normalizePhone(query.FaxNumber), normalizePhone(candidate.FaxNumber)},
	}

	var sum float64
	compared := 0
	for _, p := range pairs {
		if p.a == "" || p.b == "" {
			continue
		}
		compared++
		if strings.EqualFold(p.a, p.b) {
			sum++
		}
	}

	if compared == 0 {
		return piece
	}
	piece.Score = sum / float64(compared)
	piece.FieldsCompared = compared
	piece.Matched = sum > 0
	piece.Exact = piece.Score > 0.99
	return piece
}

// --- Supporting info comparator: sanctions programs + historical values ---

// compareSanctionsPrograms implements spec §4.6: case-insensitive overlap
// ratio between program name sets, penalized 0.8x if the
// secondary-sanction flag disagrees on an otherwise matched program.
func compareSanctionsPrograms(query, candidate []SanctionsInfo) (float64, bool) {
	if len(query) == 0 || len(candidate) == 0 {
		return 0, false
	}

	qSet := map[string]SanctionsInfo{}
	for _, q := range query {
		qSet[strings.ToLower(strings.TrimSpace(q.Program))] = q
	}
	cSet := map[string]SanctionsInfo{}
	for _, c := range candidate {
		cSet[strings.ToLower(strings.TrimSpace(c.Program))] = c
	}

	overlap := 0
	var penalty float64
	for name, q := range qSet {
		if c, ok := cSet[name]; ok {
			overlap++
			if q.SecondarySanction != c.SecondarySanction {
				penalty += 0.2
			}
		}
	}
	if overlap == 0 {
		return 0, true
	}

	union := len(qSet) + len(cSet) - overlap
	ratio := float64(overlap) / float64(union)
	ratio *= 1 - penalty/float64(overlap)
	return clamp01(ratio), true
}

// compareHistoricalValues implements spec §4.6: best JW score among
// type-matched historical strings.
func compareHistoricalValues(query, candidate []HistoricalInfo, cfg *config.Config) (float64, bool) {
	if len(query) == 0 || len(candidate) == 0 {
		return 0, false
	}
	best := 0.0
	found := false
	for _, q := range query {
		for _, c := range candidate {
			if q.Type != c.Type {
				continue
			}
			found = true
			s := bestPairJaroWinkler(tokenize(lowerAndStripPunctuation(q.Value)), tokenize(lowerAndStripPunctuation(c.Value)), cfg)
			if s > best {
				best = s
			}
		}
	}
	return best, found
}

// compareSupportingInfo implements spec §4.6: union of program and
// historical comparisons, excluding zero scores from the mean.
func compareSupportingInfo(query, candidate *Entity, cfg *config.Config) ScorePiece {
	piece := ScorePiece{PieceType: "supportingInfo", Weight: 15}

	var scores []float64
	if s, ok := compareSanctionsPrograms(query.SanctionsInfo, candidate.SanctionsInfo); ok && s > 0 {
		scores = append(scores, s)
	}
	if s, ok := compareHistoricalValues(query.HistoricalInfo, candidate.HistoricalInfo, cfg); ok && s > 0 {
		scores = append(scores, s)
	}

	if len(scores) == 0 {
		return piece
	}
	piece.Score = average(scores)
	piece.FieldsCompared = len(scores)
	piece.Matched = true
	piece.Exact = piece.Score >= 0.999
	return piece
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
