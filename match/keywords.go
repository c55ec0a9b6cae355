package match

import (
	"sort"
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"
)

// stopwords covers the most common English filler plus support-ticket
// pleasantries; comparison text is multilingual so this list is best-effort.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "can": true, "cannot": true,
	"this": true, "that": true, "these": true, "those": true, "and": true,
	"or": true, "but": true, "if": true, "then": true, "for": true,
	"from": true, "with": true, "about": true, "into": true, "to": true,
	"of": true, "in": true, "on": true, "at": true, "by": true, "it": true,
	"its": true, "my": true, "your": true, "our": true, "me": true,
	"you": true, "we": true, "they": true, "i": true, "not": true,
	"no": true, "yes": true, "please": true, "hello": true, "hi": true,
	"thanks": true, "thank": true, "regards": true, "dear": true,
	"when": true, "where": true, "how": true, "why": true, "what": true,
	"который": true, "пожалуйста": true, "bitte": true, "danke": true,
}

// TopKeywords returns the most frequent non-stopword tokens across the given
// texts, ranked by frequency then alphabetically. Each text contributes at
// most one count per distinct word, so a single rambling ticket cannot
// dominate the ranking.
func TopKeywords(texts []string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	counts := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]bool)
		for _, word := range tokenize(text) {
			if seen[word] {
				continue
			}
			seen[word] = true
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// tokenize lowercases and splits text into candidate keyword tokens using the
// prose tokenizer, falling back to a field split when the tokenizer fails.
func tokenize(text string) []string {
	var raw []string
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err == nil {
		for _, tok := range doc.Tokens() {
			raw = append(raw, tok.Text)
		}
	} else {
		raw = strings.Fields(text)
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		word := strings.ToLower(strings.TrimFunc(r, func(c rune) bool {
			return !unicode.IsLetter(c) && !unicode.IsDigit(c)
		}))
		if len([]rune(word)) < 3 || stopwords[word] {
			continue
		}
		if !hasLetter(word) {
			continue
		}
		out = append(out, word)
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Examples picks up to max representative texts for a cluster, preferring
// shorter ones since they read better in review tooling.
func Examples(texts []string, max int) []string {
	if max <= 0 {
		max = 3
	}
	sorted := make([]string, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) < len(sorted[j]) })
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}
