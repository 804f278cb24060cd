package screening

import "strings"

// Language codes used throughout the package. "und" means undetermined.
const (
	LangEnglish      = "en"
	LangSpanish      = "es"
	LangFrench       = "fr"
	LangGerman       = "de"
	LangRussian      = "ru"
	LangArabic       = "ar"
	LangChinese      = "zh"
	LangUndetermined = "und"
)

// stopwordSets holds the per-language stopword membership tables (spec
// §4.2: "at least English, Spanish, French, German, Russian, Arabic,
// Chinese").
var stopwordSets = map[string]map[string]bool{
	LangEnglish: toSet([]string{
		"the", "a", "an", "of", "and", "or", "in", "on", "for", "to", "de", "del",
		"inc", "ltd", "co", "company", "corp", "corporation", "llc", "llp",
		"mr", "mrs", "ms", "dr", "jr", "sr",
	}),
	LangSpanish: toSet([]string{
		"el", "la", "los", "las", "de", "del", "y", "o", "en", "para", "un", "una",
		"señor", "señora", "don", "doña",
	}),
	LangFrench: toSet([]string{
		"le", "la", "les", "de", "du", "des", "et", "ou", "en", "pour", "un", "une",
		"monsieur", "madame",
	}),
	LangGerman: toSet([]string{
		"der", "die", "das", "und", "oder", "in", "fur", "ein", "eine",
		"herr", "frau",
	}),
	LangRussian: toSet([]string{
		"и", "или", "в", "на", "для", "из", "от", "по", "к", "с",
	}),
	LangArabic: toSet([]string{
		"و", "في", "من", "على", "إلى", "عن", "مع", "ال",
	}),
	LangChinese: toSet([]string{
		"的", "和", "与", "在", "是", "了", "及", "或",
	}),
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// countryToLanguage maps an ISO country name/code (lowercased, as it
// appears after normalization) to its primary screening language. Covers
// more than fifty countries per spec §4.2.
var countryToLanguage = map[string]string{
	"united states": LangEnglish, "us": LangEnglish, "usa": LangEnglish,
	"united kingdom": LangEnglish, "uk": LangEnglish, "gb": LangEnglish,
	"canada": LangEnglish, "australia": LangEnglish, "new zealand": LangEnglish,
	"ireland": LangEnglish, "south africa": LangEnglish, "nigeria": LangEnglish,
	"india": LangEnglish, "pakistan": LangEnglish, "philippines": LangEnglish,
	"singapore": LangEnglish, "kenya": LangEnglish, "ghana": LangEnglish,

	"spain": LangSpanish, "mexico": LangSpanish, "argentina": LangSpanish,
	"colombia": LangSpanish, "venezuela": LangSpanish, "chile": LangSpanish,
	"peru": LangSpanish, "ecuador": LangSpanish, "cuba": LangSpanish,
	"bolivia": LangSpanish, "paraguay": LangSpanish, "uruguay": LangSpanish,
	"guatemala": LangSpanish, "honduras": LangSpanish, "nicaragua": LangSpanish,
	"panama": LangSpanish, "dominican republic": LangSpanish, "el salvador": LangSpanish,
	"costa rica": LangSpanish,

	"france": LangFrench, "belgium": LangFrench, "switzerland": LangFrench,
	"cote d'ivoire": LangFrench, "senegal": LangFrench, "mali": LangFrench,
	"niger": LangFrench, "haiti": LangFrench, "cameroon": LangFrench,
	"democratic republic of the congo": LangFrench, "congo": LangFrench,
	"burkina faso": LangFrench, "gabon": LangFrench, "guinea": LangFrench,
	"luxembourg": LangFrench, "monaco": LangFrench,

	"germany": LangGerman, "austria": LangGerman, "liechtenstein": LangGerman,

	"russia": LangRussian, "belarus": LangRussian, "kazakhstan": LangRussian,
	"kyrgyzstan": LangRussian, "tajikistan": LangRussian, "uzbekistan": LangRussian,
	"ukraine": LangRussian,

	"saudi arabia": LangArabic, "united arab emirates": LangArabic, "iraq": LangArabic,
	"syria": LangArabic, "lebanon": LangArabic, "jordan": LangArabic, "yemen": LangArabic,
	"libya": LangArabic, "egypt": LangArabic, "algeria": LangArabic, "morocco": LangArabic,
	"tunisia": LangArabic, "sudan": LangArabic, "qatar": LangArabic, "kuwait": LangArabic,
	"bahrain": LangArabic, "oman": LangArabic,

	"china": LangChinese, "taiwan": LangChinese, "hong kong": LangChinese,
	"macau": LangChinese, "singapore (chinese)": LangChinese,

	// Sanctioned-country overrides, kept consistent with normalizeCountry.
	"north korea": LangChinese, // no dedicated stopword set; closest cultural proxy avoided, falls through to country default below
}

func init() {
	// North Korea screening data is typically transliterated/English; avoid
	// the Chinese stopword-set misassignment above by explicitly preferring
	// English, matching how OFAC/CSL publish DPRK entries.
	countryToLanguage["north korea"] = LangEnglish
}

// detectLanguage returns a best-effort language guess and a confidence in
// [0,1], using token overlap against each stopword set (spec §4.2). It
// never returns an error; below confidence 0.5, resolveLanguage tries the
// country first, then keeps this guess, then falls back to English.
func detectLanguage(text string) (lang string, confidence float64) {
	tokens := tokenize(lowerAndStripPunctuation(text))
	if len(tokens) == 0 {
		return LangUndetermined, 0
	}

	bestLang := LangUndetermined
	bestHits := 0
	for l, set := range stopwordSets {
		hits := 0
		for _, tok := range tokens {
			if set[tok] {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestLang = l
		}
	}

	if bestHits == 0 {
		return LangUndetermined, 0
	}
	confidence = float64(bestHits) / float64(len(tokens))
	if confidence > 1 {
		confidence = 1
	}
	return bestLang, confidence
}

// languageForCountry maps a normalized country name to its primary
// screening language, or "" if unknown.
func languageForCountry(country string) string {
	country = strings.TrimSpace(strings.ToLower(country))
	if l, ok := countryToLanguage[country]; ok {
		return l
	}
	return ""
}

// resolveLanguage implements the detectLanguage (confidence >= 0.5) ->
// country fallback -> low-confidence detected language -> English default
// chain after spec §4.2.
func resolveLanguage(text, country string) string {
	lang, confidence := detectLanguage(text)
	if confidence >= 0.5 {
		return lang
	}
	if fromCountry := languageForCountry(country); fromCountry != "" {
		return fromCountry
	}
	if lang != LangUndetermined {
		return lang
	}
	return LangEnglish
}

// removeStopwords drops tokens in lang's stopword set or in extra (a
// deployment-site overlay addition), except number tokens, which are
// always preserved (spec §4.1/§4.2/§8 property 6).
func removeStopwords(tokens []string, lang string, extra []string) []string {
	set, ok := stopwordSets[lang]
	if !ok {
		set = stopwordSets[LangEnglish]
	}
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if isNumberToken(tok) {
			out = append(out, tok)
			continue
		}
		if set[tok] {
			continue
		}
		if containsFold(extra, tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func containsFold(list []string, tok string) bool {
	for _, v := range list {
		if strings.EqualFold(v, tok) {
			return true
		}
	}
	return false
}
