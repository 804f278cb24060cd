package screening

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/braidfi/sanctionscreen/pkg/config"
)

// ScoreBreakdown exposes the per-comparator contributions plus the final
// aggregate score (spec §6 external interface).
type ScoreBreakdown struct {
	NameScore            float64
	AltNamesScore        float64
	AddressScore         float64
	GovernmentIDScore    float64
	CryptoAddressScore   float64
	ContactScore         float64
	DateScore            float64
	SupportingScore      float64
	TotalWeightedScore   float64
	Coverage             float64
	CriticalCoverage     float64
	HighConfidence       bool
	MatchingTokens       int
	Pieces               []ScorePiece
}

// String renders a one-line human-readable summary of bd, used by
// cmd/screenctl and audit logging.
func (bd ScoreBreakdown) String() string {
	return fmt.Sprintf(
		"total=%.4f name=%.4f altNames=%.4f address=%.4f govId=%.4f crypto=%.4f contact=%.4f date=%.4f supporting=%.4f coverage=%.2f criticalCoverage=%.2f highConfidence=%v",
		bd.TotalWeightedScore, bd.NameScore, bd.AltNamesScore, bd.AddressScore, bd.GovernmentIDScore,
		bd.CryptoAddressScore, bd.ContactScore, bd.DateScore, bd.SupportingScore, bd.Coverage, bd.CriticalCoverage, bd.HighConfidence)
}

// CSVRow renders bd as a single header-less CSV row (encoding/csv handles
// quoting consistently; no ecosystem CSV library surfaced in the example
// corpus, so this stays on the standard library), column order matching
// String(). Used by audit-log exporters built on top of a search.
func (bd ScoreBreakdown) CSVRow() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	record := []string{
		strconv.FormatFloat(bd.TotalWeightedScore, 'f', 4, 64),
		strconv.FormatFloat(bd.NameScore, 'f', 4, 64),
		strconv.FormatFloat(bd.AltNamesScore, 'f', 4, 64),
		strconv.FormatFloat(bd.AddressScore, 'f', 4, 64),
		strconv.FormatFloat(bd.GovernmentIDScore, 'f', 4, 64),
		strconv.FormatFloat(bd.CryptoAddressScore, 'f', 4, 64),
		strconv.FormatFloat(bd.ContactScore, 'f', 4, 64),
		strconv.FormatFloat(bd.DateScore, 'f', 4, 64),
		strconv.FormatFloat(bd.SupportingScore, 'f', 4, 64),
		strconv.FormatFloat(bd.Coverage, 'f', 4, 64),
		strconv.FormatFloat(bd.CriticalCoverage, 'f', 4, 64),
		strconv.FormatBool(bd.HighConfidence),
	}
	if err := w.Write(record); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// availableFields is the type-specific denominator for Coverage (spec
// §4.7). Each default is overridable via SCREEN_AVAILABLE_FIELDS_<TYPE>,
// for deployments whose source schema carries more or fewer fields per
// entity type than the defaults assume.
var availableFields = map[EntityType]int{
	TypePerson:       config.GetEnvInt("AVAILABLE_FIELDS_PERSON", 14),
	TypeBusiness:     config.GetEnvInt("AVAILABLE_FIELDS_BUSINESS", 12),
	TypeOrganization: config.GetEnvInt("AVAILABLE_FIELDS_ORGANIZATION", 12),
	TypeVessel:       config.GetEnvInt("AVAILABLE_FIELDS_VESSEL", 17),
	TypeAircraft:     config.GetEnvInt("AVAILABLE_FIELDS_AIRCRAFT", 15),
}

// EntityScorer runs the applicable per-field comparators for a candidate's
// concrete type and aggregates them into a ScoreBreakdown (spec §4.7).
type EntityScorer struct {
	cfg *config.Config
}

// NewEntityScorer constructs a scorer. cfg must be non-nil; scoring
// without configuration is refused (spec §7 ConfigurationMissing).
func NewEntityScorer(cfg *config.Config) (*EntityScorer, error) {
	if cfg == nil {
		return nil, newConfigurationMissing("EntityScorer.cfg")
	}
	return &EntityScorer{cfg: cfg}, nil
}

// Score compares query against candidate and returns the full breakdown.
// ctx may be Disabled(); a nil ctx is treated as Disabled().
func (s *EntityScorer) Score(query, candidate *Entity, ctx ScoringContext) ScoreBreakdown {
	if ctx == nil {
		ctx = Disabled()
	}

	var pieces []ScorePiece
	matchingTokens := 0

	var altPiece ScorePiece
	namePiece, ok := ctx.Traced(PhaseNameComparison, "name comparison", func() (ScorePiece, error) {
		p, alt, ok := compareNames(query, candidate, s.cfg)
		altPiece = alt
		if !ok {
			return p, errEarlyExit
		}
		return p, nil
	})
	pieces = append(pieces, namePiece)
	if altPiece.FieldsCompared > 0 {
		ctx.Record(PhaseAltNameComparison, "alt name comparison")
		pieces = append(pieces, altPiece)
	}
	matchingTokens += countMatchingTokens(query, candidate)
	if !ok {
		return finalizeBreakdown(pieces, matchingTokens, query, candidate, s.cfg)
	}

	switch candidate.Type {
	case TypePerson:
		pieces = append(pieces, s.scorePerson(query, candidate, ctx)...)
	case TypeBusiness, TypeOrganization:
		pieces = append(pieces, s.scoreOrgLike(query, candidate, ctx)...)
	case TypeVessel:
		pieces = append(pieces, s.scoreVessel(query, candidate, ctx)...)
	case TypeAircraft:
		pieces = append(pieces, s.scoreAircraft(query, candidate, ctx)...)
	}

	pieces = append(pieces, s.scoreCommon(query, candidate, ctx)...)

	bd := finalizeBreakdown(pieces, matchingTokens, query, candidate, s.cfg)
	ctx.WithBreakdown(bd)
	return bd
}

var errEarlyExit = newInvalidEntity("name score below early-exit floor")

// safeCompare runs fn under a recover() boundary, per spec §7's
// ComparisonFailure class: a panicking comparator degrades to a zero
// piece of the given type instead of crashing the whole Score call.
func safeCompare(pieceType string, fn func() ScorePiece) (piece ScorePiece) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnw("comparator panicked, degrading to zero piece",
				"err", newComparisonFailure(pieceType, r))
			piece = zeroPiece(pieceType)
		}
	}()
	return fn()
}

func (s *EntityScorer) scorePerson(query, candidate *Entity, ctx ScoringContext) []ScorePiece {
	var pieces []ScorePiece
	if query.Person != nil && candidate.Person != nil {
		pieces = append(pieces, safeCompare("title", func() ScorePiece {
			return compareTitles(query.Person.Titles, candidate.Person.Titles, s.cfg)
		}))
		date, _ := ctx.Traced(PhaseDateComparison, "life date comparison", func() (ScorePiece, error) {
			return compareLifeDates(query.Person.BirthDate, query.Person.DeathDate, candidate.Person.BirthDate, candidate.Person.DeathDate), nil
		})
		pieces = append(pieces, date)
	}
	return pieces
}

func (s *EntityScorer) scoreOrgLike(query, candidate *Entity, ctx ScoringContext) []ScorePiece {
	var pieces []ScorePiece
	qAff, cAff := affiliationsOf(query), affiliationsOf(candidate)
	pieces = append(pieces, safeCompare("affiliation", func() ScorePiece {
		return compareAffiliations(qAff, cAff, s.cfg)
	}))

	qCreated, qDissolved := createdDissolved(query)
	cCreated, cDissolved := createdDissolved(candidate)
	date, _ := ctx.Traced(PhaseDateComparison, "created/dissolved comparison", func() (ScorePiece, error) {
		created := compareDates(qCreated, cCreated)
		dissolved := compareDates(qDissolved, cDissolved)
		return mergeDatePieces(created, dissolved), nil
	})
	pieces = append(pieces, date)
	return pieces
}

func (s *EntityScorer) scoreVessel(query, candidate *Entity, ctx ScoringContext) []ScorePiece {
	var pieces []ScorePiece
	if query.Vessel != nil && candidate.Vessel != nil {
		fields := map[string][2]string{
			"imo":      {query.Vessel.IMONumber, candidate.Vessel.IMONumber},
			"callsign": {query.Vessel.CallSign, candidate.Vessel.CallSign},
			"mmsi":     {query.Vessel.MMSI, candidate.Vessel.MMSI},
		}
		pieces = append(pieces, safeCompare("assetId", func() ScorePiece {
			return compareAssetIdentifiers(fields, vesselIDWeights)
		}))
		date, _ := ctx.Traced(PhaseDateComparison, "built date comparison", func() (ScorePiece, error) {
			return compareDates(query.Vessel.Built, candidate.Vessel.Built), nil
		})
		pieces = append(pieces, date)
	}
	return pieces
}

func (s *EntityScorer) scoreAircraft(query, candidate *Entity, ctx ScoringContext) []ScorePiece {
	var pieces []ScorePiece
	if query.Aircraft != nil && candidate.Aircraft != nil {
		fields := map[string][2]string{
			"serialnumber": {query.Aircraft.SerialNumber, candidate.Aircraft.SerialNumber},
			"icao":         {query.Aircraft.ICAOCode, candidate.Aircraft.ICAOCode},
		}
		pieces = append(pieces, safeCompare("assetId", func() ScorePiece {
			return compareAssetIdentifiers(fields, aircraftIDWeights)
		}))
		date, _ := ctx.Traced(PhaseDateComparison, "built date comparison", func() (ScorePiece, error) {
			return compareDates(query.Aircraft.Built, candidate.Aircraft.Built), nil
		})
		pieces = append(pieces, date)
	}
	return pieces
}

// scoreCommon runs the comparators that apply regardless of entity type:
// address, government IDs, crypto, contact, supporting info.
func (s *EntityScorer) scoreCommon(query, candidate *Entity, ctx ScoringContext) []ScorePiece {
	addr, _ := ctx.Traced(PhaseAddressComparison, "address comparison", func() (ScorePiece, error) {
		return compareAddresses(query.Addresses, candidate.Addresses, s.cfg), nil
	})
	govID, _ := ctx.Traced(PhaseGovIDComparison, "government id comparison", func() (ScorePiece, error) {
		return compareGovernmentIDs(query.GovernmentIDs, candidate.GovernmentIDs), nil
	})
	crypto, _ := ctx.Traced(PhaseCryptoComparison, "crypto comparison", func() (ScorePiece, error) {
		return compareCryptoAddresses(query.CryptoAddresses, candidate.CryptoAddresses), nil
	})
	contact, _ := ctx.Traced(PhaseContactComparison, "contact comparison", func() (ScorePiece, error) {
		return compareContact(query.ContactInfo, candidate.ContactInfo), nil
	})
	supporting := safeCompare("supportingInfo", func() ScorePiece {
		return compareSupportingInfo(query, candidate, s.cfg)
	})

	return []ScorePiece{addr, govID, crypto, contact, supporting}
}

func affiliationsOf(e *Entity) []Affiliation {
	if e.Business != nil {
		return e.Business.Affiliations
	}
	if e.Organization != nil {
		return e.Organization.Affiliations
	}
	return nil
}

func createdDissolved(e *Entity) (*Date, *Date) {
	if e.Business != nil {
		return e.Business.Created, e.Business.Dissolved
	}
	if e.Organization != nil {
		return e.Organization.Created, e.Organization.Dissolved
	}
	return nil, nil
}

func mergeDatePieces(a, b ScorePiece) ScorePiece {
	pieces := []ScorePiece{}
	if a.FieldsCompared > 0 {
		pieces = append(pieces, a)
	}
	if b.FieldsCompared > 0 {
		pieces = append(pieces, b)
	}
	if len(pieces) == 0 {
		return ScorePiece{PieceType: "date", Weight: 15}
	}
	var sum float64
	for _, p := range pieces {
		sum += p.Score
	}
	return ScorePiece{
		PieceType:      "date",
		Weight:         15,
		Score:          sum / float64(len(pieces)),
		FieldsCompared: len(pieces),
		Matched:        sum > 0,
	}
}

func countMatchingTokens(query, candidate *Entity) int {
	if query.Prepared == nil || candidate.Prepared == nil {
		return 0
	}
	cSet := make(map[string]bool, len(candidate.Prepared.PrimaryNameTokens))
	for _, t := range candidate.Prepared.PrimaryNameTokens {
		cSet[t] = true
	}
	count := 0
	for _, t := range query.Prepared.PrimaryNameTokens {
		if cSet[t] {
			count++
		}
	}
	return count
}

// finalizeBreakdown implements the weighted-raw / coverage / quality /
// penalty / bonus pipeline of spec §4.7.
func finalizeBreakdown(pieces []ScorePiece, matchingTokens int, query, candidate *Entity, cfg *config.Config) ScoreBreakdown {
	bd := ScoreBreakdown{Pieces: pieces, MatchingTokens: matchingTokens}

	var weightedSum, totalWeight float64
	compared := 0
	criticalCompared := 0
	hasName, hasID, hasAddress := false, false, false

	for _, p := range pieces {
		switch p.PieceType {
		case "name":
			bd.NameScore = p.Score
			if p.Matched {
				hasName = true
			}
		case "altName":
			bd.AltNamesScore = p.Score
		case "address":
			bd.AddressScore = p.Score
			if p.Matched {
				hasAddress = true
			}
		case "governmentId", "assetId":
			bd.GovernmentIDScore = p.Score
			if p.Matched {
				hasID = true
			}
		case "crypto":
			bd.CryptoAddressScore = p.Score
		case "contact":
			bd.ContactScore = p.Score
		case "date":
			bd.DateScore = p.Score
		case "supportingInfo":
			bd.SupportingScore = p.Score
		}

		if p.Score > 0 {
			weightedSum += p.Score * p.Weight
			totalWeight += p.Weight
		}
		if p.FieldsCompared > 0 {
			compared += p.FieldsCompared
			if p.PieceType == "name" || p.PieceType == "governmentId" || p.PieceType == "assetId" || p.PieceType == "address" {
				criticalCompared += p.FieldsCompared
			}
		}
	}

	raw := 0.0
	if totalWeight > 0 {
		raw = weightedSum / totalWeight
	}

	typeFields := availableFields[candidate.Type]
	if typeFields == 0 {
		typeFields = 12
	}
	bd.Coverage = clamp01(float64(compared) / float64(typeFields))
	criticalFields := 3 // name, id, address
	bd.CriticalCoverage = clamp01(float64(minInt(criticalCompared, criticalFields)) / float64(criticalFields))

	if query.Prepared != nil && len(query.Prepared.PrimaryNameTokens) >= 2 && matchingTokens < 2 {
		raw *= 0.8
	}

	requiredFieldsCompared := 0
	for _, p := range pieces {
		if p.Matched {
			requiredFieldsCompared++
		}
	}

	if bd.Coverage < 0.35 {
		raw *= 0.95
	}
	if bd.CriticalCoverage < 0.7 {
		raw *= 0.90
	}
	if requiredFieldsCompared < 2 {
		raw *= 0.90
	}
	if hasName && !hasID && !hasAddress {
		raw *= 0.95
	}

	hasCritical := hasID || hasAddress
	if hasName && hasID && hasCritical && bd.Coverage > 0.70 && raw > 0.95 {
		raw *= 1.15
	}

	bd.TotalWeightedScore = clamp01(raw)
	bd.HighConfidence = matchingTokens >= 2 && bd.TotalWeightedScore > 0.85

	return bd
}
