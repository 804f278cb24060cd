package screening

import "strings"

// Merger collapses the multiple source rows a sanctions list sometimes
// emits for one logical entity (e.g. repeated alias or address rows) into
// a single Entity per (source, sourceId, type) triple (spec §4.9).
type Merger struct{}

// NewMerger constructs a Merger. It carries no state; exported as a type
// for symmetry with the rest of the pipeline's constructors.
func NewMerger() *Merger { return &Merger{} }

// Merge groups entities by MergeKey and folds each group into one record.
// Group order is preserved by first appearance; field folding favors the
// first non-empty scalar seen and de-duplicates list fields.
func (m *Merger) Merge(entities []*Entity) []*Entity {
	order := make([]string, 0, len(entities))
	groups := make(map[string][]*Entity)

	for _, e := range entities {
		key := mergeKeyString(e.MergeKey())
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	out := make([]*Entity, 0, len(order))
	for _, key := range order {
		out = append(out, mergeGroup(groups[key]))
	}
	return out
}

func mergeKeyString(k [3]string) string {
	return k[0] + "\x00" + k[1] + "\x00" + k[2]
}

// mergeGroup folds a slice of same-identity rows into one Entity. The
// first row supplies the base scalar/polymorphic fields; later rows only
// fill gaps and contribute to the merged list fields.
func mergeGroup(rows []*Entity) *Entity {
	if len(rows) == 1 {
		e := rows[0].Clone()
		e.Prepared = nil
		return e
	}

	base := rows[0].Clone()

	var altNames, remarks, programs []string
	var addresses []Address
	var cryptos []CryptoAddress
	var govIDs []GovernmentID
	var sanctions []SanctionsInfo
	var historical []HistoricalInfo

	for _, r := range rows {
		altNames = mergeStrings(altNames, r.AltNames)
		remarks = mergeStrings(remarks, r.Remarks)
		programs = mergeStrings(programs, r.Programs)
		addresses = mergeAddresses(addresses, r.Addresses)
		cryptos = mergeCryptoAddresses(cryptos, r.CryptoAddresses)
		govIDs = mergeGovernmentIDs(govIDs, r.GovernmentIDs)
		sanctions = mergeSanctions(sanctions, r.SanctionsInfo)
		historical = mergeHistorical(historical, r.HistoricalInfo)

		if base.Name == "" {
			base.Name = r.Name
		}
		if base.ContactInfo.EmailAddress == "" {
			base.ContactInfo.EmailAddress = r.ContactInfo.EmailAddress
		}
		if base.ContactInfo.PhoneNumber == "" {
			base.ContactInfo.PhoneNumber = r.ContactInfo.PhoneNumber
		}
		if base.ContactInfo.FaxNumber == "" {
			base.ContactInfo.FaxNumber = r.ContactInfo.FaxNumber
		}
		mergeDetail(base, r)
	}

	base.AltNames = altNames
	base.Remarks = remarks
	base.Programs = programs
	base.Addresses = addresses
	base.CryptoAddresses = cryptos
	base.GovernmentIDs = govIDs
	base.SanctionsInfo = sanctions
	base.HistoricalInfo = historical
	base.Prepared = nil // merged entity must be re-normalized before scoring
	return base
}

func mergeDetail(base, r *Entity) {
	switch {
	case base.Person != nil && r.Person != nil:
		base.Person.Titles = mergeStrings(base.Person.Titles, r.Person.Titles)
		base.Person.Nationality = mergeStrings(base.Person.Nationality, r.Person.Nationality)
		if base.Person.BirthDate == nil {
			base.Person.BirthDate = r.Person.BirthDate
		}
		if base.Person.DeathDate == nil {
			base.Person.DeathDate = r.Person.DeathDate
		}
		if base.Person.Gender == "" {
			base.Person.Gender = r.Person.Gender
		}
	case base.Business != nil && r.Business != nil:
		base.Business.Affiliations = mergeAffiliations(base.Business.Affiliations, r.Business.Affiliations)
		if base.Business.Created == nil {
			base.Business.Created = r.Business.Created
		}
		if base.Business.Dissolved == nil {
			base.Business.Dissolved = r.Business.Dissolved
		}
		if base.Business.Registration == "" {
			base.Business.Registration = r.Business.Registration
		}
	case base.Organization != nil && r.Organization != nil:
		base.Organization.Affiliations = mergeAffiliations(base.Organization.Affiliations, r.Organization.Affiliations)
		if base.Organization.Created == nil {
			base.Organization.Created = r.Organization.Created
		}
		if base.Organization.Dissolved == nil {
			base.Organization.Dissolved = r.Organization.Dissolved
		}
	case base.Vessel != nil && r.Vessel != nil:
		if base.Vessel.IMONumber == "" {
			base.Vessel.IMONumber = r.Vessel.IMONumber
		}
		if base.Vessel.CallSign == "" {
			base.Vessel.CallSign = r.Vessel.CallSign
		}
		if base.Vessel.MMSI == "" {
			base.Vessel.MMSI = r.Vessel.MMSI
		}
		if base.Vessel.Flag == "" {
			base.Vessel.Flag = r.Vessel.Flag
		}
		if base.Vessel.Built == nil {
			base.Vessel.Built = r.Vessel.Built
		}
	case base.Aircraft != nil && r.Aircraft != nil:
		if base.Aircraft.SerialNumber == "" {
			base.Aircraft.SerialNumber = r.Aircraft.SerialNumber
		}
		if base.Aircraft.ICAOCode == "" {
			base.Aircraft.ICAOCode = r.Aircraft.ICAOCode
		}
		if base.Aircraft.Built == nil {
			base.Aircraft.Built = r.Aircraft.Built
		}
	}
}

// mergeKeyFold lowercases and trims s, the "case-insensitive" half of every
// dedup key below (spec §4.9).
func mergeKeyFold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dedupeByKey appends values from b not already present in a, where
// presence is decided by a caller-supplied case-insensitive key rather
// than struct equality.
func dedupeByKey[T any](a, b []T, key func(T) string) []T {
	out := append([]T(nil), a...)
	seen := make(map[string]bool, len(out))
	for _, v := range out {
		seen[key(v)] = true
	}
	for _, v := range b {
		k := key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

// mergeStrings appends values from b not already present in a under
// trim+case-insensitive equality, preserving first-seen casing and order.
func mergeStrings(a, b []string) []string {
	out := append([]string(nil), a...)
	seen := make(map[string]bool, len(out))
	for _, v := range out {
		seen[mergeKeyFold(v)] = true
	}
	for _, v := range b {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := mergeKeyFold(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func addressKey(a Address) string {
	return mergeKeyFold(a.Line1) + "\x00" + mergeKeyFold(a.Line2)
}

// fillAddress copies any sub-field incoming carries that existing is
// missing, implementing spec §4.9's "on collision, fill missing
// sub-fields" for mergeAddresses.
func fillAddress(existing, incoming Address) Address {
	if existing.Line1 == "" {
		existing.Line1 = incoming.Line1
	}
	if existing.Line2 == "" {
		existing.Line2 = incoming.Line2
	}
	if existing.City == "" {
		existing.City = incoming.City
	}
	if existing.State == "" {
		existing.State = incoming.State
	}
	if existing.PostalCode == "" {
		existing.PostalCode = incoming.PostalCode
	}
	if existing.Country == "" {
		existing.Country = incoming.Country
	}
	return existing
}

// mergeAddresses dedupes by (line1, line2) case-insensitive; on a
// collision, missing sub-fields of the kept row are filled from the
// incoming row rather than the incoming row being dropped outright.
func mergeAddresses(a, b []Address) []Address {
	out := append([]Address(nil), a...)
	index := make(map[string]int, len(out))
	for i, addr := range out {
		index[addressKey(addr)] = i
	}
	for _, addr := range b {
		key := addressKey(addr)
		if i, ok := index[key]; ok {
			out[i] = fillAddress(out[i], addr)
			continue
		}
		index[key] = len(out)
		out = append(out, addr)
	}
	return out
}

// mergeGovernmentIDs dedupes by (type, country, identifier) case-insensitive
// (spec §4.9, tested directly by spec §8 property 10).
func mergeGovernmentIDs(a, b []GovernmentID) []GovernmentID {
	return dedupeByKey(a, b, func(id GovernmentID) string {
		return string(id.Type) + "\x00" + mergeKeyFold(id.Country) + "\x00" + mergeKeyFold(id.Identifier)
	})
}

// mergeCryptoAddresses dedupes by (currency, address) case-insensitive
// (spec §4.9).
func mergeCryptoAddresses(a, b []CryptoAddress) []CryptoAddress {
	return dedupeByKey(a, b, func(c CryptoAddress) string {
		return mergeKeyFold(c.Currency) + "\x00" + mergeKeyFold(c.Address)
	})
}

// mergeSanctions dedupes by (program, secondarySanction) case-insensitive
// on the program name, consistent with the other list-field merges.
func mergeSanctions(a, b []SanctionsInfo) []SanctionsInfo {
	return dedupeByKey(a, b, func(s SanctionsInfo) string {
		if s.SecondarySanction {
			return mergeKeyFold(s.Program) + "\x00secondary"
		}
		return mergeKeyFold(s.Program) + "\x00primary"
	})
}

// mergeHistorical dedupes by (type, value) case-insensitive.
func mergeHistorical(a, b []HistoricalInfo) []HistoricalInfo {
	return dedupeByKey(a, b, func(h HistoricalInfo) string {
		return mergeKeyFold(h.Type) + "\x00" + mergeKeyFold(h.Value)
	})
}

// mergeAffiliations dedupes by (name, type) case-insensitive.
func mergeAffiliations(a, b []Affiliation) []Affiliation {
	return dedupeByKey(a, b, func(aff Affiliation) string {
		return mergeKeyFold(aff.Name) + "\x00" + mergeKeyFold(aff.Type)
	})
}
