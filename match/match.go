// Package match compares query vectors against the canonical-intent set and
// converts raw similarity scores into tiered verdicts with operational
// quality flags.
package match

import (
	"intent-miner/types"
	"intent-miner/vectors"
)

// Thresholds are the tiering and flagging knobs. Zero values use defaults.
type Thresholds struct {
	// MapToExisting: similarity at or above this maps the cluster onto the
	// matched intent.
	MapToExisting float64
	// Ambiguous: similarity in [Ambiguous, MapToExisting) needs manual review.
	Ambiguous float64
	// HighRiskReopenRate flags clusters whose reopen fraction exceeds it.
	HighRiskReopenRate float64
	// AutomationRate flags clusters whose auto-closeable fraction exceeds it.
	AutomationRate float64
}

func (t Thresholds) withDefaults() Thresholds {
	if t.MapToExisting <= 0 {
		t.MapToExisting = 0.78
	}
	if t.Ambiguous <= 0 {
		t.Ambiguous = 0.65
	}
	if t.HighRiskReopenRate <= 0 {
		t.HighRiskReopenRate = 0.15
	}
	if t.AutomationRate <= 0 {
		t.AutomationRate = 0.70
	}
	return t
}

// NearestIntent returns the single closest canonical intent by cosine
// similarity. An empty canonical set is a valid state and yields the NONE
// sentinel with score 0. Intents without an embedding are skipped.
func NearestIntent(query []float32, intents []types.CanonicalIntent) (types.MatchResult, error) {
	best := types.MatchResult{
		Method:          types.MethodSemantic,
		MatchedIntentID: types.NoneIntentID,
		Score:           0,
	}
	found := false
	for _, intent := range intents {
		if len(intent.Embedding) == 0 {
			continue
		}
		sim, err := vectors.Cosine(query, intent.Embedding)
		if err != nil {
			return types.MatchResult{}, err
		}
		if !found || sim > best.Score {
			best.Score = sim
			best.MatchedIntentID = intent.IntentID
			found = true
		}
	}
	if !found {
		best.Score = 0
		best.MatchedIntentID = types.NoneIntentID
	}
	return best, nil
}

// Tier converts a nearest-match similarity into a verdict. The three tiers
// are mutually exclusive and exhaustive over [0,1].
func (t Thresholds) Tier(similarity float64) types.Verdict {
	t = t.withDefaults()
	switch {
	case similarity >= t.MapToExisting:
		return types.VerdictMapToExisting
	case similarity >= t.Ambiguous:
		return types.VerdictAmbiguous
	default:
		return types.VerdictProposeNew
	}
}

// Flags returns the quality flags for a cluster given its verdict and member
// statistics. MIDDLE_ZONE rides with the ambiguous tier; the risk and
// automation flags are independent of the tier.
func (t Thresholds) Flags(verdict types.Verdict, reopenRate, autoCloseRate float64) []types.QualityFlag {
	t = t.withDefaults()
	var flags []types.QualityFlag
	if verdict == types.VerdictAmbiguous {
		flags = append(flags, types.FlagMiddleZone)
	}
	if reopenRate > t.HighRiskReopenRate {
		flags = append(flags, types.FlagHighRisk)
	}
	if autoCloseRate > t.AutomationRate {
		flags = append(flags, types.FlagHighAutomation)
	}
	return flags
}
