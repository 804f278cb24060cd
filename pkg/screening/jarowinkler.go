package screening

import (
	"fmt"
	"strings"
	"time"

	"github.com/braidfi/sanctionscreen/pkg/config"
	gocache "github.com/patrickmn/go-cache"
)

// jwCache memoizes customJaroWinkler(a,b) pairs within and across a single
// search call. It is a pure in-process performance optimization — nothing
// is written to disk, so it does not touch the "no persistence" non-goal —
// grounded on the teacher's indirect dependency on patrickmn/go-cache.
var jwCache = gocache.New(5*time.Minute, 10*time.Minute)

// jwCacheKey builds a memoization key over the two strings and the config
// fields that affect customJaroWinkler's output.
func jwCacheKey(a, b string, cfg *config.Config) string {
	return fmt.Sprintf("%s\x00%s\x00%.4f\x00%.4f\x00%.4f\x00%d\x00%.4f",
		a, b, cfg.LengthDifferenceCutoffFactor, cfg.LengthDifferencePenaltyWeight,
		cfg.DifferentLetterPenaltyWeight, cfg.JaroWinklerPrefixSize,
		cfg.JaroWinklerBoostThreshold)
}

// jaro computes the standard Jaro similarity of a and b, in [0,1].
func jaro(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 && lb == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	matchDistance := maxInt(la, lb)/2 - 1
	if matchDistance < 0 {
		matchDistance = 0
	}

	aMatches := make([]bool, la)
	bMatches := make([]bool, lb)

	matches := 0
	for i := 0; i < la; i++ {
		start := maxInt(0, i-matchDistance)
		end := minInt(i+matchDistance+1, lb)
		for j := start; j < end; j++ {
			if bMatches[j] || ra[i] != rb[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	var transpositions int
	k := 0
	for i := 0; i < la; i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if ra[i] != rb[k] {
			transpositions++
		}
		k++
	}
	t := float64(transpositions) / 2

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-t)/m) / 3
}

// winklerBoost applies the prefix boost to a base Jaro score, per spec
// §4.4: base + prefixLen*p*(1-base), prefixLen capped at prefixSize,
// applied only when base >= boostThreshold.
func winklerBoost(a, b string, base float64, prefixSize int, boostThreshold, p float64) float64 {
	if base < boostThreshold {
		return base
	}
	ra, rb := []rune(a), []rune(b)
	max := minInt(prefixSize, minInt(len(ra), len(rb)))
	prefixLen := 0
	for i := 0; i < max; i++ {
		if ra[i] != rb[i] {
			break
		}
		prefixLen++
	}
	return base + float64(prefixLen)*p*(1-base)
}

// jaroWinkler computes base Jaro plus the Winkler prefix boost using cfg's
// tunables and the fixed Winkler scaling factor p=0.1.
func jaroWinkler(a, b string, cfg *config.Config) float64 {
	base := jaro(a, b)
	return winklerBoost(a, b, base, cfg.JaroWinklerPrefixSize, cfg.JaroWinklerBoostThreshold, 0.1)
}

// customJaroWinkler implements spec §4.4: base Jaro-Winkler multiplied by
// a length-difference cutoff penalty and a first-letter-mismatch penalty,
// each applied at most once.
func customJaroWinkler(a, b string, cfg *config.Config) float64 {
	if cfg == nil {
		panic("customJaroWinkler: nil config")
	}
	if a == "" || b == "" {
		if a == b {
			return 1
		}
		return 0
	}

	key := jwCacheKey(a, b, cfg)
	if cached, ok := jwCache.Get(key); ok {
		return cached.(float64)
	}

	score := jaroWinkler(a, b, cfg)

	la, lb := len([]rune(a)), len([]rune(b))
	minLen, maxLen := la, lb
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if maxLen > 0 && float64(minLen)/float64(maxLen) < cfg.LengthDifferenceCutoffFactor {
		score *= 1 - cfg.LengthDifferencePenaltyWeight
	}

	ra, rb := []rune(a), []rune(b)
	if ra[0] != rb[0] {
		score *= cfg.DifferentLetterPenaltyWeight
	}

	jwCache.Set(key, score, gocache.DefaultExpiration)
	return score
}

// bestPairJaroWinkler implements spec §4.4: for each query token choose the
// best-scoring indexed token, average across query tokens, then subtract
// an unmatched-indexed-token penalty. Indexed tokens may be reused.
func bestPairJaroWinkler(queryTokens, indexTokens []string, cfg *config.Config) float64 {
	if len(queryTokens) == 0 || len(indexTokens) == 0 {
		return 0
	}

	used := make(map[int]bool, len(indexTokens))
	var sum float64
	for _, q := range queryTokens {
		best := 0.0
		bestIdx := -1
		for idx, i := range indexTokens {
			s := customJaroWinkler(q, i, cfg)
			if s > best {
				best = s
				bestIdx = idx
			}
		}
		sum += best
		if bestIdx >= 0 {
			used[bestIdx] = true
		}
	}

	avg := sum / float64(len(queryTokens))
	unmatched := len(indexTokens) - len(used)
	penalty := cfg.UnmatchedIndexTokenWeight * (float64(unmatched) / float64(len(indexTokens)))
	result := avg - penalty
	return clamp01(result)
}

// generateWordCombinations implements spec §4.4: the original token list,
// a forward pass merging each token of length <=3 with the following
// token, and (only if the forward pass produced a variant) a backward
// pass merging the first character of each token of length <=3 onto the
// preceding emitted token. Duplicate variants (including a backward pass
// that collapses back to the original) are not repeated.
func generateWordCombinations(tokens []string) [][]string {
	if len(tokens) == 0 {
		return [][]string{{}}
	}

	variants := [][]string{append([]string(nil), tokens...)}

	forward := forwardCombine(tokens)
	if !tokensEqual(forward, tokens) {
		variants = append(variants, forward)

		backward := backwardCombine(tokens)
		if !containsTokens(variants, backward) {
			variants = append(variants, backward)
		}
	}

	return variants
}

func forwardCombine(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		if len(tokens[i]) <= 3 && i+1 < len(tokens) {
			out = append(out, tokens[i]+tokens[i+1])
			i += 2
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func backwardCombine(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 3 && len(out) > 0 {
			out[len(out)-1] = out[len(out)-1] + tok[:1]
			if rest := tok[1:]; rest != "" {
				out = append(out, rest)
			}
			continue
		}
		out = append(out, tok)
	}
	return out
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsTokens(variants [][]string, v []string) bool {
	for _, existing := range variants {
		if tokensEqual(existing, v) {
			return true
		}
	}
	return false
}

// bestPairCombinationJaroWinkler implements spec §4.4: compute
// combinations for both sides and return the max bestPairJaroWinkler over
// the Cartesian product. No additional penalty is applied afterwards.
func bestPairCombinationJaroWinkler(queryTokens, indexTokens []string, cfg *config.Config) float64 {
	qCombos := generateWordCombinations(queryTokens)
	iCombos := generateWordCombinations(indexTokens)

	best := 0.0
	for _, q := range qCombos {
		for _, i := range iCombos {
			if s := bestPairJaroWinkler(q, i, cfg); s > best {
				best = s
			}
		}
	}
	return best
}

// jaroWinklerWithFavoritism implements spec §4.4: word-level comparison
// between indexTerm and query with positional-distance gating, a bonus
// for perfect word matches, a 0.9x cap on the average when the query is a
// single word and the indexed side has several, an average of only the
// top len(query) word scores when the indexed side has more words than a
// query of more than five words, and a final cap at 1.0.
func jaroWinklerWithFavoritism(indexTerm, query string, favoritism float64, cfg *config.Config) float64 {
	indexWords := strings.Fields(indexTerm)
	queryWords := strings.Fields(query)
	if len(indexWords) == 0 || len(queryWords) == 0 {
		return 0
	}

	scores := make([]float64, 0, len(indexWords))
	for ii, iw := range indexWords {
		best := 0.0
		for qi, qw := range queryWords {
			if absInt(ii-qi) > 3 {
				continue
			}
			s := customJaroWinkler(iw, qw, cfg)
			if strings.EqualFold(iw, qw) {
				s += favoritism
			}
			if s > best {
				best = s
			}
		}
		scores = append(scores, best)
	}

	if len(indexWords) > 1 && len(queryWords) == 1 {
		avg := average(scores)
		return clamp01(avg * 0.9)
	}

	if len(indexWords) > len(queryWords) && len(queryWords) > 5 {
		sortDescending(scores)
		top := scores[:len(queryWords)]
		return clamp01(average(top))
	}

	return clamp01(average(scores))
}

func average(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func sortDescending(vals []float64) {
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j-1] < vals[j]; j-- {
			vals[j-1], vals[j] = vals[j], vals[j-1]
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
