// Package report packages clusters, audit findings, and promotion candidates
// into the structured and human-readable results handed to reviewers. It is
// pure aggregation: nothing here recomputes scores or mutates inputs.
package report

import (
	"fmt"
	"sort"
	"strings"

	"intent-miner/types"

	"github.com/gomarkdown/markdown"
)

// classRank orders findings worst-first for review.
var classRank = map[types.Classification]int{
	types.ClassIncorrect: 0,
	types.ClassAmbiguous: 1,
	types.ClassCorrect:   2,
}

// BuildDiscovery partitions annotated clusters into the three verdict buckets,
// each sorted by cluster size descending, and attaches a capped noise sample.
func BuildDiscovery(meta types.RunMetadata, clusters []types.ClusterReport, noiseTexts []string, noiseCap int) types.DiscoveryResult {
	if noiseCap <= 0 {
		noiseCap = 20
	}
	result := types.DiscoveryResult{Metadata: meta}
	for _, c := range clusters {
		switch c.Verdict {
		case types.VerdictProposeNew:
			result.ProposedNew = append(result.ProposedNew, c)
		case types.VerdictMapToExisting:
			result.MapToExisting = append(result.MapToExisting, c)
		default:
			result.AmbiguousClusters = append(result.AmbiguousClusters, c)
		}
	}
	for _, bucket := range []*[]types.ClusterReport{
		&result.ProposedNew, &result.MapToExisting, &result.AmbiguousClusters,
	} {
		sort.SliceStable(*bucket, func(i, j int) bool {
			return (*bucket)[i].Size > (*bucket)[j].Size
		})
	}

	sample := noiseTexts
	if len(sample) > noiseCap {
		sample = sample[:noiseCap]
	}
	result.NoiseSample = sample
	return result
}

// BuildAudit sorts findings worst-first and assembles the textual report.
func BuildAudit(runID string, findings []types.AuditFinding, candidates []types.PromotionCandidate) types.AuditResult {
	sorted := make([]types.AuditFinding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return classRank[sorted[i].Classification] < classRank[sorted[j].Classification]
	})

	return types.AuditResult{
		RunID:      runID,
		Findings:   sorted,
		Candidates: candidates,
		Report:     renderAuditMarkdown(sorted, candidates),
	}
}

// renderAuditMarkdown produces the human-readable report: summary counts,
// per-finding detail, a prioritized fix list, and the promotion plan table.
func renderAuditMarkdown(findings []types.AuditFinding, candidates []types.PromotionCandidate) string {
	var b strings.Builder

	counts := map[types.Classification]int{}
	for _, f := range findings {
		counts[f.Classification]++
	}

	b.WriteString("# Intent Match Audit\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Audited assignments: %d\n", len(findings))
	fmt.Fprintf(&b, "- INCORRECT: %d\n", counts[types.ClassIncorrect])
	fmt.Fprintf(&b, "- AMBIGUOUS: %d\n", counts[types.ClassAmbiguous])
	fmt.Fprintf(&b, "- CORRECT: %d\n", counts[types.ClassCorrect])
	fmt.Fprintf(&b, "- Unmatched intents (promotion candidates): %d\n\n", len(candidates))

	b.WriteString("## Findings\n\n")
	if len(findings) == 0 {
		b.WriteString("No assignments were matched by any tier.\n\n")
	}
	for _, f := range findings {
		fmt.Fprintf(&b, "### %s — %s\n\n", f.IntentID, f.Classification)
		fmt.Fprintf(&b, "- Method: %s, score %.3f, matched %s\n",
			f.Match.Method, f.Match.Score, f.Match.MatchedIntentID)
		fmt.Fprintf(&b, "- Shared label tokens: %d, label similarity %.2f\n",
			f.SharedTokens, f.LabelSim)
		if f.ExampleText != "" {
			fmt.Fprintf(&b, "- Example query: %q\n", f.ExampleText)
		}
		if f.ProposedFix != nil {
			b.WriteString(fixLine(f.ProposedFix))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Prioritized fixes\n\n")
	fixCount := 0
	for _, f := range findings {
		if f.ProposedFix == nil {
			continue
		}
		fixCount++
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", fixCount, f.Classification, f.IntentID, f.ProposedFix.Type)
	}
	if fixCount == 0 {
		b.WriteString("Nothing to fix.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Promotion plan\n\n")
	if len(candidates) == 0 {
		b.WriteString("No unmatched intents.\n")
	} else {
		b.WriteString("| Intent | Tickets | Decision |\n|---|---|---|\n")
		for _, c := range candidates {
			decision := "promote"
			if c.Wait {
				decision = "wait"
			}
			fmt.Fprintf(&b, "| %s | %d | %s |\n", c.IntentID, c.TicketCount, decision)
		}
	}

	return b.String()
}

func fixLine(fix *types.ProposedFix) string {
	switch fix.Type {
	case types.FixTightenRegex:
		return fmt.Sprintf("- Proposed fix: tighten_regex with prefix `%s`\n", fix.Pattern)
	case types.FixAdjustNormalization:
		return fmt.Sprintf("- Proposed fix: adjust_normalization, alias `%s`\n", fix.Alias)
	default:
		return fmt.Sprintf("- Proposed fix: add_disambiguation, ask %q (options: %s)\n",
			fix.Question, strings.Join(fix.Options, ", "))
	}
}

// RenderHTML converts the markdown report into HTML for the web view.
func RenderHTML(markdownReport string) string {
	return string(markdown.ToHTML([]byte(markdownReport), nil, nil))
}
