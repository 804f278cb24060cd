package screening

import (
	"regexp"
	"strings"

	"github.com/braidfi/sanctionscreen/pkg/config"
)

// companySuffixes are stripped iteratively from normalized names (spec
// §4.5 step 2).
var companySuffixes = []string{
	"corporation", "incorporated", "inc", "ltd", "limited", "llc", "llp",
	"corp", "co", "company", "gmbh", "sa", "ag", "bv", "nv", "plc", "pte",
	"sarl", "spa", "kg", "kft", "oao", "zao", "pjsc",
	"organization", "organisation",
}

// lastFirstPattern matches "LAST, FIRST" style names.
var lastFirstPattern = regexp.MustCompile(`^\s*([^,]+?)\s*,\s*(.+?)\s*$`)

// reorderLastFirst rewrites "LAST, FIRST" to "FIRST LAST" (spec §4.5 step 1).
// Names without a comma pass through unchanged.
func reorderLastFirst(name string) string {
	m := lastFirstPattern.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	last, first := m[1], m[2]
	return strings.TrimSpace(first + " " + last)
}

// stripCompanySuffixes iteratively removes trailing company-suffix tokens,
// checking the built-in list plus any deployment-site overlay suffixes
// (config.Overlay.CompanySuffixes).
func stripCompanySuffixes(tokens []string, extra []string) []string {
	for {
		if len(tokens) == 0 {
			return tokens
		}
		last := strings.ToLower(strings.TrimRight(tokens[len(tokens)-1], "."))
		stripped := false
		for _, suf := range companySuffixes {
			if last == suf {
				tokens = tokens[:len(tokens)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			for _, suf := range extra {
				if last == strings.ToLower(suf) {
					tokens = tokens[:len(tokens)-1]
					stripped = true
					break
				}
			}
		}
		if !stripped {
			return tokens
		}
	}
}

// overlaySuffixes returns the deployment-site company suffixes configured
// via cfg.Overlay, or nil if none are configured.
func overlaySuffixes(cfg *config.Config) []string {
	if cfg == nil || cfg.Overlay == nil {
		return nil
	}
	return cfg.Overlay.CompanySuffixes
}

// overlayStopwords returns the deployment-site stopword additions for lang
// configured via cfg.Overlay, or nil if none are configured.
func overlayStopwords(cfg *config.Config, lang string) []string {
	if cfg == nil || cfg.Overlay == nil {
		return nil
	}
	return cfg.Overlay.StopwordOverrides[lang]
}

// normalizeNameField runs the full single-field name pipeline of spec §4.5
// step 2: strip apostrophes, lowerAndStripPunctuation, strip company
// suffixes, detect language, remove stopwords (number-preserving). It
// returns the normalized string, its token list, and the detected language.
func normalizeNameField(name, country string, cfg *config.Config) (normalized string, tokens []string, lang string) {
	reordered := reorderLastFirst(name)
	cleaned, err := normalizeFieldSafe("name", stripApostrophes(reordered))
	if err != nil {
		// ErrNormalizationFailure (spec §7): the field is treated as empty
		// and the pipeline continues rather than aborting the whole entity.
		cleaned = ""
	}
	toks := tokenize(cleaned)
	toks = stripCompanySuffixes(toks, overlaySuffixes(cfg))

	lang = resolveLanguage(strings.Join(toks, " "), country)
	if !cfg.KeepStopwords {
		toks = removeStopwords(toks, lang, overlayStopwords(cfg, lang))
	}

	return strings.Join(toks, " "), toks, lang
}

// trunkPrefixes are leading international/trunk dialing prefixes stripped
// during phone normalization (spec §4.5 step 4).
var trunkPrefixes = []string{"00", "011"}

var phoneNoise = regexp.MustCompile(`[+\-().\s]`)

// normalizePhone strips +, -, (, ), ., and whitespace, then a leading
// trunk prefix.
func normalizePhone(phone string) string {
	stripped := phoneNoise.ReplaceAllString(phone, "")
	for _, p := range trunkPrefixes {
		if strings.HasPrefix(stripped, p) {
			stripped = strings.TrimPrefix(stripped, p)
			break
		}
	}
	return stripped
}

// countryAliases maps ISO 3166 alpha-2/alpha-3 codes and common variants to
// a canonical lowercase country name (spec §4.5 step 5), including the
// fixed overrides the spec calls out by name.
var countryAliases = map[string]string{
	"us": "united states", "usa": "united states", "united states of america": "united states",
	"gb": "united kingdom", "uk": "united kingdom", "gbr": "united kingdom", "great britain": "united kingdom",
	"kp": "north korea", "prk": "north korea", "dprk": "north korea",
	"cz": "czech republic", "cze": "czech republic", "czechia": "czech republic",
	"ru": "russia", "rus": "russia", "russian federation": "russia",
	"ir": "iran", "irn": "iran", "islamic republic of iran": "iran",
	"sy": "syria", "syr": "syria", "syrian arab republic": "syria",
	"cu": "cuba", "cub": "cuba",
	"ve": "venezuela", "ven": "venezuela", "bolivarian republic of venezuela": "venezuela",
	"cn": "china", "chn": "china", "peoples republic of china": "china",
	"mm": "myanmar", "mmr": "myanmar", "burma": "myanmar",
	"by": "belarus", "blr": "belarus",
	"af": "afghanistan", "afg": "afghanistan",
	"so": "somalia", "som": "somalia",
	"sd": "sudan", "sdn": "sudan",
	"ly": "libya", "lby": "libya",
	"ye": "yemen", "yem": "yemen",
	"iq": "iraq", "irq": "iraq",
	"ng": "nigeria", "nga": "nigeria",
	"de": "germany", "deu": "germany",
	"fr": "france", "fra": "france",
	"es": "spain", "esp": "spain",
	"mx": "mexico", "mex": "mexico",
	"ca": "canada", "can": "canada",
}

// normalizeCountry lowercases and maps a raw country field through the
// alias table.
func normalizeCountry(country string) string {
	c := strings.ToLower(strings.TrimSpace(country))
	if alias, ok := countryAliases[c]; ok {
		return alias
	}
	return c
}

var addressNoise = regexp.MustCompile(`[,.#]`)

// normalizeAddress implements spec §4.5 step 5 for a single Address.
func normalizeAddress(a Address) Address {
	clean := func(s string) string {
		return strings.TrimSpace(collapseSpaces(addressNoise.ReplaceAllString(strings.ToLower(s), " ")))
	}
	return Address{
		Line1:      clean(a.Line1),
		Line2:      clean(a.Line2),
		City:       clean(a.City),
		State:      clean(a.State),
		PostalCode: clean(a.PostalCode),
		Country:    normalizeCountry(a.Country),
	}
}

// normalizeGender implements spec §4.5 step 6.
func normalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "m", "male", "man", "guy":
		return "male"
	case "f", "female", "woman", "gal", "girl":
		return "female"
	default:
		return "unknown"
	}
}

var idNoise = regexp.MustCompile(`[\s-]`)

// normalizeIdentifier implements spec §4.5 step 7: uppercase, strip spaces
// and hyphens.
func normalizeIdentifier(id string) string {
	return strings.ToUpper(idNoise.ReplaceAllString(id, ""))
}

// normalize implements spec §4.5 end to end, returning a new Entity with
// Prepared populated. The input is never mutated (normalize(normalize(e))
// == normalize(e), spec §3/§8 property 1).
func normalize(e *Entity, cfg *config.Config) (*Entity, error) {
	if cfg == nil {
		return nil, newConfigurationMissing("normalize.config")
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	out := e.Clone()

	primaryCountry := ""
	if len(out.Addresses) > 0 {
		primaryCountry = out.Addresses[0].Country
	}

	normPrimary, primaryTokens, lang := normalizeNameField(out.Name, primaryCountry, cfg)

	altSet := NewStringSet()
	altTokenLists := make([][]string, 0, len(out.AltNames))
	for _, alt := range out.AltNames {
		normAlt, altToks, _ := normalizeNameField(alt, primaryCountry, cfg)
		if normAlt != "" {
			altSet.Add(normAlt)
		}
		altTokenLists = append(altTokenLists, altToks)
	}

	combos := generateWordCombinations(primaryTokens)

	out.ContactInfo.PhoneNumber = normalizePhone(out.ContactInfo.PhoneNumber)
	out.ContactInfo.FaxNumber = normalizePhone(out.ContactInfo.FaxNumber)

	for i := range out.Addresses {
		out.Addresses[i] = normalizeAddress(out.Addresses[i])
	}

	if out.Person != nil {
		p := *out.Person
		p.Gender = normalizeGender(p.Gender)
		out.Person = &p
	}

	for i := range out.GovernmentIDs {
		out.GovernmentIDs[i].Identifier = normalizeIdentifier(out.GovernmentIDs[i].Identifier)
		out.GovernmentIDs[i].Country = normalizeCountry(out.GovernmentIDs[i].Country)
	}

	phonetic := ""
	if len(primaryTokens) > 0 {
		phonetic = soundex(primaryTokens[0])
	}

	out.Prepared = &PreparedFields{
		NormalizedPrimaryName: normPrimary,
		NormalizedAltNames:    altSet,
		PrimaryNameTokens:     primaryTokens,
		AltNameTokens:         altTokenLists,
		NameCombinations:      combos,
		DetectedLanguage:      lang,
		PhoneticClass:         phonetic,
	}

	return out, nil
}
