package audit

import (
	"strings"
	"unicode"
)

// Label-similarity weights: token overlap dominates because intent ids are
// compound identifiers whose word content matters more than their spelling.
const (
	levenshteinWeight = 0.4
	jaccardWeight     = 0.6
)

// minTokenLen drops fragments like "qr" remnants and single letters produced
// by identifier splitting.
const minTokenLen = 3

// splitIdentifier breaks a camel-case / kebab-case / snake-case intent id
// into lowercase word tokens, discarding tokens shorter than minTokenLen.
func splitIdentifier(id string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(id)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			// Boundary on lower->Upper ("qrTag") and on the last capital of
			// an acronym run ("QRTag" -> "QR" + "Tag").
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				flush()
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()

	var out []string
	for _, w := range words {
		if len(w) >= minTokenLen {
			out = append(out, w)
		}
	}
	return out
}

// tokenSet returns the identifier's tokens as a set.
func tokenSet(id string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range splitIdentifier(id) {
		set[w] = true
	}
	return set
}

// sharedTokens counts tokens common to both identifiers.
func sharedTokens(a, b string) int {
	setA := tokenSet(a)
	shared := 0
	for _, w := range splitIdentifier(b) {
		if setA[w] {
			shared++
			delete(setA, w)
		}
	}
	return shared
}

// jaccardTokens is the Jaccard overlap of the two identifiers' token sets.
func jaccardTokens(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// levenshtein computes edit distance over runes with a two-row table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// levenshteinSimilarity is 1 minus the normalized edit distance between the
// lowercased identifiers.
func levenshteinSimilarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// LabelSimilarity blends normalized Levenshtein similarity with Jaccard token
// overlap between two intent identifiers.
func LabelSimilarity(a, b string) float64 {
	return levenshteinWeight*levenshteinSimilarity(a, b) + jaccardWeight*jaccardTokens(a, b)
}
