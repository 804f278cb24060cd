// Package screening implements the sanctions watchlist matching engine: entity
// modeling, normalization, fuzzy similarity, per-field comparators, weighted
// scoring, and an in-memory concurrent-readable index.
package screening

import "github.com/google/uuid"

// EntityType identifies the concrete detail payload an Entity carries.
type EntityType string

const (
	TypePerson       EntityType = "PERSON"
	TypeBusiness     EntityType = "BUSINESS"
	TypeOrganization EntityType = "ORGANIZATION"
	TypeVessel       EntityType = "VESSEL"
	TypeAircraft     EntityType = "AIRCRAFT"
	TypeUnknown      EntityType = "UNKNOWN"
)

// SourceList identifies the sanctions catalogue an Entity was parsed from.
type SourceList string

const (
	SourceOFACSDN SourceList = "OFAC_SDN"
	SourceUSCSL   SourceList = "US_CSL"
	SourceEUCSL   SourceList = "EU_CSL"
	SourceUKCSL   SourceList = "UK_CSL"
)

// GovernmentIDType enumerates the identifier kinds a GovernmentID can carry.
type GovernmentIDType string

const (
	IDPassport       GovernmentIDType = "PASSPORT"
	IDTaxID          GovernmentIDType = "TAX_ID"
	IDDriverLicense  GovernmentIDType = "DRIVER_LICENSE"
	IDNationalID     GovernmentIDType = "NATIONAL_ID"
	IDRegistration   GovernmentIDType = "REGISTRATION"
	IDOther          GovernmentIDType = "OTHER"
)

// Address is a postal address. All fields are freeform until normalized.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// GovernmentID is a single identifying document or registration number.
type GovernmentID struct {
	Type       GovernmentIDType
	Identifier string
	Country    string
}

// CryptoAddress is a single cryptocurrency wallet entry.
type CryptoAddress struct {
	Currency string
	Address  string
}

// ContactInfo holds the singular contact fields a record may carry.
type ContactInfo struct {
	EmailAddress string
	PhoneNumber  string
	FaxNumber    string
}

// SanctionsInfo describes a single sanctions-program membership.
type SanctionsInfo struct {
	Program           string
	SecondarySanction bool
}

// HistoricalInfo is a type-tagged historical value (former name, former
// flag, former address, etc.) kept separate from the current-state fields.
type HistoricalInfo struct {
	Type  string
	Value string
}

// PersonDetail is the polymorphic payload for TypePerson entities.
type PersonDetail struct {
	Titles      []string
	BirthDate   *Date
	DeathDate   *Date
	Gender      string
	Nationality []string
}

// BusinessDetail is the polymorphic payload for TypeBusiness entities.
type BusinessDetail struct {
	Affiliations []Affiliation
	Created      *Date
	Dissolved    *Date
	Registration string
}

// OrganizationDetail is the polymorphic payload for TypeOrganization entities.
type OrganizationDetail struct {
	Affiliations []Affiliation
	Created      *Date
	Dissolved    *Date
}

// VesselDetail is the polymorphic payload for TypeVessel entities.
type VesselDetail struct {
	IMONumber  string
	CallSign   string
	MMSI       string
	Flag       string
	Built      *Date
	VesselType string
	Tonnage    string
}

// AircraftDetail is the polymorphic payload for TypeAircraft entities.
type AircraftDetail struct {
	SerialNumber string
	ICAOCode     string
	Model        string
	Built        *Date
}

// Affiliation ties a business/organization to a related party by name and
// relationship type (ownership, control, association, leadership taxonomy).
type Affiliation struct {
	Name string
	Type string
}

// Date is a partial or complete calendar date. Zero fields mean "unknown".
type Date struct {
	Year  int
	Month int
	Day   int
}

// PreparedFields is computed once during normalization and cached on the
// Entity. The scorer never mutates or recomputes it.
type PreparedFields struct {
	NormalizedPrimaryName string
	NormalizedAltNames    *StringSet
	PrimaryNameTokens     []string
	AltNameTokens         [][]string
	NameCombinations      [][]string
	DetectedLanguage      string
	PhoneticClass         string
}

// Entity is the immutable core record screened against and searched for.
// Exactly one of Person/Business/Organization/Vessel/Aircraft is non-nil,
// matching Type.
type Entity struct {
	ID       string
	SourceID string
	Name     string
	Type     EntityType
	Source   SourceList

	Person       *PersonDetail
	Business     *BusinessDetail
	Organization *OrganizationDetail
	Vessel       *VesselDetail
	Aircraft     *AircraftDetail

	Addresses       []Address
	CryptoAddresses []CryptoAddress
	AltNames        []string
	GovernmentIDs   []GovernmentID
	ContactInfo     ContactInfo
	SanctionsInfo   []SanctionsInfo
	HistoricalInfo  []HistoricalInfo
	Remarks         []string
	Programs        []string

	Prepared *PreparedFields
}

// NewEntityID generates a stable-format unique entity identifier. Parsers
// that already have a native key should set Entity.ID directly; this is for
// synthetic/merged entities and tests.
func NewEntityID() string {
	return uuid.NewString()
}

// detailMatchesType reports whether the populated polymorphic detail slot
// agrees with Type, per the "detail matches type" invariant (spec §3).
func (e *Entity) detailMatchesType() bool {
	switch e.Type {
	case TypePerson:
		return e.Person != nil && e.Business == nil && e.Organization == nil && e.Vessel == nil && e.Aircraft == nil
	case TypeBusiness:
		return e.Business != nil && e.Person == nil && e.Organization == nil && e.Vessel == nil && e.Aircraft == nil
	case TypeOrganization:
		return e.Organization != nil && e.Person == nil && e.Business == nil && e.Vessel == nil && e.Aircraft == nil
	case TypeVessel:
		return e.Vessel != nil && e.Person == nil && e.Business == nil && e.Organization == nil && e.Aircraft == nil
	case TypeAircraft:
		return e.Aircraft != nil && e.Person == nil && e.Business == nil && e.Organization == nil && e.Vessel == nil
	case TypeUnknown:
		return e.Person == nil && e.Business == nil && e.Organization == nil && e.Vessel == nil && e.Aircraft == nil
	default:
		return false
	}
}

// Validate checks the invariants an Entity must satisfy before it can be
// normalized and indexed. It returns InvalidEntity wrapping a description of
// the first violation found.
func (e *Entity) Validate() error {
	if e.ID == "" {
		return newInvalidEntity("missing id")
	}
	if e.Name == "" {
		return newInvalidEntity("missing name")
	}
	if !e.detailMatchesType() {
		return newInvalidEntity("polymorphic detail does not match declared type " + string(e.Type))
	}
	return nil
}

// Clone returns a deep copy of the Entity so callers (the merger, test
// fixtures) can mutate a working copy without aliasing the receiver's
// slices — required because entities are immutable once installed.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	c.Addresses = append([]Address(nil), e.Addresses...)
	c.CryptoAddresses = append([]CryptoAddress(nil), e.CryptoAddresses...)
	c.AltNames = append([]string(nil), e.AltNames...)
	c.GovernmentIDs = append([]GovernmentID(nil), e.GovernmentIDs...)
	c.SanctionsInfo = append([]SanctionsInfo(nil), e.SanctionsInfo...)
	c.HistoricalInfo = append([]HistoricalInfo(nil), e.HistoricalInfo...)
	c.Remarks = append([]string(nil), e.Remarks...)
	c.Programs = append([]string(nil), e.Programs...)

	if e.Person != nil {
		p := *e.Person
		p.Titles = append([]string(nil), e.Person.Titles...)
		p.Nationality = append([]string(nil), e.Person.Nationality...)
		c.Person = &p
	}
	if e.Business != nil {
		b := *e.Business
		b.Affiliations = append([]Affiliation(nil), e.Business.Affiliations...)
		c.Business = &b
	}
	if e.Organization != nil {
		o := *e.Organization
		o.Affiliations = append([]Affiliation(nil), e.Organization.Affiliations...)
		c.Organization = &o
	}
	if e.Vessel != nil {
		v := *e.Vessel
		c.Vessel = &v
	}
	if e.Aircraft != nil {
		a := *e.Aircraft
		c.Aircraft = &a
	}
	if e.Prepared != nil {
		prep := *e.Prepared
		prep.PrimaryNameTokens = append([]string(nil), e.Prepared.PrimaryNameTokens...)
		prep.AltNameTokens = make([][]string, len(e.Prepared.AltNameTokens))
		for i, t := range e.Prepared.AltNameTokens {
			prep.AltNameTokens[i] = append([]string(nil), t...)
		}
		prep.NameCombinations = make([][]string, len(e.Prepared.NameCombinations))
		for i, t := range e.Prepared.NameCombinations {
			prep.NameCombinations[i] = append([]string(nil), t...)
		}
		if e.Prepared.NormalizedAltNames != nil {
			prep.NormalizedAltNames = e.Prepared.NormalizedAltNames.Clone()
		}
		c.Prepared = &prep
	}
	return &c
}

// MergeKey returns the triple identifying rows belonging to one logical
// entity for the merger (spec §4.9).
func (e *Entity) MergeKey() [3]string {
	return [3]string{string(e.Source), e.SourceID, string(e.Type)}
}
