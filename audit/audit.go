// Package audit re-validates intent assignments made by the upstream
// classifier using a three-tier cascade: regex rules, embedding similarity,
// and fuzzy label matching, cheapest and most precise first. Each tier feeds
// a classification decision table that explains why a match is trusted.
package audit

import (
	"context"
	"sort"

	"intent-miner/config"
	"intent-miner/match"
	"intent-miner/types"

	"go.uber.org/zap"
)

// SingleEmbedder is the slice of the embedding provider the semantic tier
// needs. *embedding.Provider satisfies it.
type SingleEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Auditor runs the cascade against a canonical-intent snapshot.
type Auditor struct {
	rules    *RuleTable
	intents  []types.CanonicalIntent
	provider SingleEmbedder
	logger   *zap.Logger

	semanticAccept float64
	fuzzyKeep      float64
	promotionMin   int
}

// New builds an Auditor. The intents slice must already carry embeddings for
// the semantic tier; intents without one are skipped there. Rules must come
// from CompileRules so malformed patterns were rejected at load time.
func New(rules *RuleTable, intents []types.CanonicalIntent, provider SingleEmbedder, cfg *config.Config, logger *zap.Logger) *Auditor {
	accept := cfg.SemanticAccept
	if accept <= 0 {
		accept = 0.78
	}
	keep := cfg.FuzzyKeep
	if keep <= 0 {
		keep = 0.50
	}
	promotionMin := cfg.PromotionMinTickets
	if promotionMin <= 0 {
		promotionMin = 5
	}
	return &Auditor{
		rules:          rules,
		intents:        intents,
		provider:       provider,
		logger:         logger,
		semanticAccept: accept,
		fuzzyKeep:      keep,
		promotionMin:   promotionMin,
	}
}

// Run audits every assignment and splits the outcomes into findings (some
// tier matched) and promotion candidates (nothing matched anywhere). The
// candidate list is ranked by ticket count; low-volume intents are marked to
// wait rather than be promoted.
func (a *Auditor) Run(ctx context.Context, assignments []types.Assignment) ([]types.AuditFinding, []types.PromotionCandidate) {
	var findings []types.AuditFinding
	var candidates []types.PromotionCandidate

	for _, assignment := range assignments {
		if ctx.Err() != nil {
			a.logger.Warn("Audit run canceled, returning partial findings",
				zap.Int("audited", len(findings)+len(candidates)),
				zap.Int("total", len(assignments)))
			break
		}
		finding, matched := a.auditOne(ctx, assignment)
		if !matched {
			candidates = append(candidates, types.PromotionCandidate{
				IntentID:    assignment.IntentID,
				TicketCount: assignment.TicketCount,
				Wait:        assignment.TicketCount < a.promotionMin,
			})
			continue
		}
		findings = append(findings, finding)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TicketCount > candidates[j].TicketCount
	})
	return findings, candidates
}

// auditOne runs the cascade for a single assignment.
func (a *Auditor) auditOne(ctx context.Context, assignment types.Assignment) (types.AuditFinding, bool) {
	example := firstExample(assignment)

	// Tier 1: ordered regex rules against the representative example.
	if intentID, ok := a.rules.FirstMatch(example); ok {
		result := types.MatchResult{
			Method:          types.MethodRegex,
			Score:           1.0,
			MatchedIntentID: intentID,
		}
		return a.finish(assignment, result, example), true
	}

	// Tier 2: embed a composite query of label plus first example and find
	// the nearest canonical intent.
	result, ok := a.semanticTier(ctx, assignment, example)
	if ok && result.Score >= a.semanticAccept {
		return a.finish(assignment, result, example), true
	}

	// Tier 3: fuzzy label similarity against every canonical intent. This
	// runs whenever the semantic tier did not accept, including when the
	// semantic score was very low.
	if fuzzyResult, ok := a.fuzzyTier(assignment.IntentID); ok {
		return a.finish(assignment, fuzzyResult, example), true
	}

	return types.AuditFinding{}, false
}

func (a *Auditor) semanticTier(ctx context.Context, assignment types.Assignment, example string) (types.MatchResult, bool) {
	query := assignment.IntentID
	if example != "" {
		query += " " + example
	}
	vec, err := a.provider.EmbedOne(ctx, query)
	if err != nil {
		a.logger.Warn("Semantic tier unavailable, falling through to fuzzy",
			zap.String("intent", assignment.IntentID), zap.Error(err))
		return types.MatchResult{}, false
	}
	result, err := match.NearestIntent(vec, a.intents)
	if err != nil {
		a.logger.Error("Semantic tier comparison failed",
			zap.String("intent", assignment.IntentID), zap.Error(err))
		return types.MatchResult{}, false
	}
	if result.MatchedIntentID == types.NoneIntentID {
		return types.MatchResult{}, false
	}
	return result, true
}

func (a *Auditor) fuzzyTier(assignedIntent string) (types.MatchResult, bool) {
	best := types.MatchResult{Method: types.MethodFuzzy, MatchedIntentID: types.NoneIntentID}
	for _, intent := range a.intents {
		score := LabelSimilarity(assignedIntent, intent.IntentID)
		if score > best.Score {
			best.Score = score
			best.MatchedIntentID = intent.IntentID
		}
	}
	if best.Score < a.fuzzyKeep || best.MatchedIntentID == types.NoneIntentID {
		return types.MatchResult{}, false
	}
	return best, true
}

// finish runs the decision table and fix proposal for a matched assignment.
func (a *Auditor) finish(assignment types.Assignment, result types.MatchResult, example string) types.AuditFinding {
	in := DecisionInput{
		Method:       result.Method,
		Score:        result.Score,
		SharedTokens: sharedTokens(assignment.IntentID, result.MatchedIntentID),
		LabelSim:     LabelSimilarity(assignment.IntentID, result.MatchedIntentID),
	}
	return types.AuditFinding{
		IntentID:       assignment.IntentID,
		Match:          result,
		SharedTokens:   in.SharedTokens,
		LabelSim:       in.LabelSim,
		Classification: Classify(in),
		ProposedFix:    ProposeFix(assignment.IntentID, in, result),
		ExampleText:    example,
	}
}

func firstExample(assignment types.Assignment) string {
	if len(assignment.ExampleTexts) == 0 {
		return ""
	}
	return assignment.ExampleTexts[0]
}
