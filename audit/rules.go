package audit

import (
	"regexp"

	"intent-miner/errors"
)

// Rule is one expert-authored pattern tied to a canonical intent. Rules are
// evaluated in declaration order, first match wins.
type Rule struct {
	IntentID string
	Pattern  string
}

type compiledRule struct {
	intentID string
	re       *regexp.Regexp
}

// RuleTable is an ordered, pre-compiled regex rule list. Patterns are
// validated at load time; a malformed pattern is a configuration error and is
// rejected before any matching happens.
type RuleTable struct {
	rules []compiledRule
}

// CompileRules validates and compiles the ordered rule list.
func CompileRules(rules []Rule) (*RuleTable, error) {
	table := &RuleTable{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, errors.WrapErrorf(errors.ErrInvalidPattern, "intent %s: %v", r.IntentID, err)
		}
		table.rules = append(table.rules, compiledRule{intentID: r.IntentID, re: re})
	}
	return table, nil
}

// FirstMatch tests text against the rules in order and returns the intent of
// the first pattern that matches.
func (t *RuleTable) FirstMatch(text string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, r := range t.rules {
		if r.re.MatchString(text) {
			return r.intentID, true
		}
	}
	return "", false
}

// Len reports the number of rules in the table.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
