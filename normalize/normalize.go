// Package normalize builds the compact comparison string used for embedding
// a ticket: subject plus a truncated slice of the question body, with
// boilerplate-only tickets rejected.
package normalize

import "strings"

// EmptySentinel marks a ticket with no usable content.
const EmptySentinel = "(empty)"

// DefaultMaxChars bounds the comparison string length.
const DefaultMaxChars = 450

// boilerplatePhrases are substrings that mark a message as automated or
// content-free. Matching is case-insensitive.
var boilerplatePhrases = []string{
	"automatic reply",
	"auto-reply",
	"autoreply",
	"out of office",
	"do not reply",
	"this is an automated message",
	"delivery status notification",
}

// confirmationOnly are short replies that carry no intent signal on their own.
var confirmationOnly = map[string]bool{
	"ok":         true,
	"okay":       true,
	"thanks":     true,
	"thank you":  true,
	"great":      true,
	"perfect":    true,
	"solved":     true,
	"resolved":   true,
	"no problem": true,
	"got it":     true,
}

// Normalizer builds comparison text for tickets.
type Normalizer struct {
	maxChars int
}

// New returns a Normalizer capping output at maxChars; values <= 0 use
// DefaultMaxChars.
func New(maxChars int) *Normalizer {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Normalizer{maxChars: maxChars}
}

// ComparisonText combines subject and question into a single bounded string.
// It returns EmptySentinel and false when the ticket has no usable content
// (empty after trimming, pure boilerplate, or confirmation-only text).
func (n *Normalizer) ComparisonText(subject, question string) (string, bool) {
	subject = collapseWhitespace(subject)
	question = collapseWhitespace(question)

	combined := strings.TrimSpace(subject + " " + question)
	if combined == "" {
		return EmptySentinel, false
	}

	lower := strings.ToLower(combined)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return EmptySentinel, false
		}
	}
	if confirmationOnly[strings.TrimRight(lower, ".!? ")] {
		return EmptySentinel, false
	}
	// Very short bodies with no subject carry no signal worth clustering.
	if subject == "" && len(question) < 10 {
		return EmptySentinel, false
	}

	if len(combined) > n.maxChars {
		combined = truncateOnRune(combined, n.maxChars)
	}
	return combined, true
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateOnRune cuts s to at most max bytes without splitting a UTF-8 rune.
func truncateOnRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
