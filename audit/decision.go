package audit

import (
	"fmt"
	"sort"
	"strings"

	"intent-miner/types"
)

// Decision-table score bands. The table combines match method, score, and
// label-token corroboration: embedding similarity alone is insufficient
// because two genuinely different intents can describe textually similar
// situations.
const (
	regexStrongLabelSim = 0.60
	regexWeakLabelSim   = 0.35
	semanticStrong      = 0.85
	semanticAccept      = 0.78
	fuzzyStrong         = 0.85
	fuzzyModerate       = 0.65
)

// DecisionInput is the complete input to the classification decision table.
type DecisionInput struct {
	Method       types.MatchMethod
	Score        float64
	SharedTokens int
	LabelSim     float64
}

// Classify is the pure decision-table function mapping a match outcome to a
// classification. It has no other inputs and no side effects.
func Classify(in DecisionInput) types.Classification {
	switch in.Method {
	case types.MethodRegex:
		switch {
		case in.SharedTokens >= 2 || in.LabelSim >= regexStrongLabelSim:
			return types.ClassCorrect
		case in.SharedTokens == 1 || in.LabelSim >= regexWeakLabelSim:
			return types.ClassAmbiguous // regex likely too broad
		default:
			return types.ClassIncorrect // regex overmatch
		}
	case types.MethodSemantic:
		switch {
		case in.Score >= semanticStrong:
			return types.ClassCorrect
		case in.Score >= semanticAccept && in.SharedTokens >= 2:
			return types.ClassCorrect
		default:
			return types.ClassAmbiguous
		}
	case types.MethodFuzzy:
		switch {
		case in.Score >= fuzzyStrong:
			return types.ClassCorrect
		case in.Score >= fuzzyModerate:
			return types.ClassAmbiguous
		default:
			return types.ClassIncorrect
		}
	default:
		return types.ClassIncorrect
	}
}

// ProposeFix generates exactly one remediation for a non-CORRECT finding:
// regex overmatches get a tightened pattern, other INCORRECT matches get an
// alias mapping, and AMBIGUOUS findings get a clarifying question. CORRECT
// findings get nil.
func ProposeFix(assignedIntent string, in DecisionInput, match types.MatchResult) *types.ProposedFix {
	class := Classify(in)
	switch class {
	case types.ClassCorrect:
		return nil
	case types.ClassAmbiguous:
		return &types.ProposedFix{
			Type: types.FixAddDisambiguation,
			Question: fmt.Sprintf("Did you mean %q or %q?",
				assignedIntent, match.MatchedIntentID),
			Options: []string{assignedIntent, match.MatchedIntentID},
		}
	default: // INCORRECT
		if in.Method == types.MethodRegex {
			return &types.ProposedFix{
				Type:    types.FixTightenRegex,
				Pattern: negativeLookahead(assignedIntent, match.MatchedIntentID),
			}
		}
		return &types.ProposedFix{
			Type:  types.FixAdjustNormalization,
			Alias: fmt.Sprintf("%s => %s", assignedIntent, match.MatchedIntentID),
		}
	}
}

// negativeLookahead suggests a lookahead prefix excluding the offending
// intent's distinctive tokens. The suggestion is for the expert-maintained
// rule table, which runs under a PCRE-style engine.
func negativeLookahead(assignedIntent, matchedIntent string) string {
	assigned := tokenSet(assignedIntent)
	var distinctive []string
	for _, tok := range splitIdentifier(matchedIntent) {
		if !assigned[tok] {
			distinctive = append(distinctive, tok)
		}
	}
	sort.Strings(distinctive)
	if len(distinctive) == 0 {
		return ""
	}
	return fmt.Sprintf(`(?!.*\b(%s)\b)`, strings.Join(distinctive, "|"))
}
