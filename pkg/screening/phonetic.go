package screening

import (
	"strings"
	"unicode"
)

// soundexDigits maps consonant letters to their Soundex digit (spec §4.3).
// Vowels, H, W, and Y are not mapped directly; H and W are dropped rather
// than treated as silent separators (per the spec).
var soundexDigits = map[rune]byte{
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

// soundex computes the four-character Soundex code of word: the first
// letter uppercased after ASCII-folding, followed by up to three digits
// from soundexDigits, with H/W dropped, adjacent identical codes
// collapsed, and the result padded/truncated to length 4.
func soundex(word string) string {
	folded := asciiFold(strings.ToLower(word))
	var letters []rune
	for _, r := range folded {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return ""
	}

	first := letters[0]
	var code strings.Builder
	code.WriteRune(unicode.ToUpper(first))

	lastDigit := byte(0)
	if d, ok := soundexDigits[first]; ok {
		lastDigit = d
	}

	for _, r := range letters[1:] {
		if r == 'h' || r == 'w' {
			continue // dropped, does not reset the adjacency collapse
		}
		d, ok := soundexDigits[r]
		if !ok {
			lastDigit = 0 // vowel-like letter resets adjacency
			continue
		}
		if d != lastDigit {
			code.WriteByte(d)
		}
		lastDigit = d
		if code.Len() >= 4 {
			break
		}
	}

	out := code.String()
	for len(out) < 4 {
		out += "0"
	}
	return out[:4]
}

// asciiFold strips combining diacritics so soundex operates on plain ASCII
// letters regardless of input script accents.
func asciiFold(s string) string {
	return lowerAndStripPunctuation(s)
}

// phoneticallyCompatible implements spec §4.3: two names are compatible if
// their first non-empty token's Soundex codes match, or the feature is
// globally disabled.
func phoneticallyCompatible(queryTokens, indexTokens []string, disabled bool) bool {
	if disabled {
		return true
	}
	qFirst := firstNonEmpty(queryTokens)
	iFirst := firstNonEmpty(indexTokens)
	if qFirst == "" || iFirst == "" {
		return true // nothing to filter on; let scoring decide
	}
	return soundex(qFirst) == soundex(iFirst)
}

func firstNonEmpty(tokens []string) string {
	for _, t := range tokens {
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}
