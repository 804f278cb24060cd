package screening

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// numberToken matches a token that must survive stopword removal
// regardless of language (spec §4.1/§4.2): digits possibly interleaved
// with '.', ',', '-'.
var numberToken = regexp.MustCompile(`^[\d.,-]*\d$`)

// isNumberToken reports whether tok must be preserved through stopword
// filtering.
func isNumberToken(tok string) bool {
	return numberToken.MatchString(tok)
}

// lowerAndStripPunctuation implements spec §4.1: NFD -> drop combining
// marks -> NFC -> lowercase -> replace non letter/digit/hyphen/whitespace
// runs with a single space -> collapse whitespace -> trim. Hyphens inside
// words are preserved (e.g. "Vice-President").
func lowerAndStripPunctuation(s string) string {
	decomposed := norm.NFD.String(s)

	var noMarks strings.Builder
	noMarks.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark (diacritic)
		}
		noMarks.WriteRune(r)
	}

	composed := norm.NFC.String(noMarks.String())
	lowered := strings.ToLower(composed)

	var out strings.Builder
	out.Grow(len(lowered))
	lastWasSpace := false
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			out.WriteRune(r)
			lastWasSpace = false
		default:
			if !lastWasSpace {
				out.WriteRune(' ')
				lastWasSpace = true
			}
		}
	}

	return strings.TrimSpace(collapseSpaces(out.String()))
}

// collapseSpaces reduces runs of whitespace to a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// tokenize splits a normalized string on whitespace.
func tokenize(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Fields(s)
}

// normalizeFieldSafe wraps lowerAndStripPunctuation with the
// NormalizationFailure boundary of spec §7: a field containing malformed
// UTF-8 cannot be safely decomposed/recomposed by golang.org/x/text/unicode/norm,
// so it is rejected rather than silently mangled.
func normalizeFieldSafe(field, s string) (string, error) {
	if !utf8.ValidString(s) {
		log.Warnw("rejecting field with invalid UTF-8 during normalization", "field", field)
		return "", newNormalizationFailure(field, "invalid UTF-8")
	}
	return lowerAndStripPunctuation(s), nil
}

// stripApostrophes removes straight and curly apostrophes, used before
// lowerAndStripPunctuation so "O'Brien" -> "obrien" rather than "o brien".
func stripApostrophes(s string) string {
	r := strings.NewReplacer("'", "", "’", "", "‘", "")
	return r.Replace(s)
}
