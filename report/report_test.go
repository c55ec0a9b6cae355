package report

import (
	"testing"

	"intent-miner/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusterReport(id, size int, verdict types.Verdict) types.ClusterReport {
	return types.ClusterReport{ClusterID: id, Size: size, Verdict: verdict}
}

func TestBuildDiscoveryBucketsAndSorting(t *testing.T) {
	meta := types.RunMetadata{TicketsSeen: 30, TotalClusters: 5, NoiseCount: 3}
	clusters := []types.ClusterReport{
		clusterReport(0, 6, types.VerdictProposeNew),
		clusterReport(1, 12, types.VerdictMapToExisting),
		clusterReport(2, 9, types.VerdictProposeNew),
		clusterReport(3, 5, types.VerdictAmbiguous),
		clusterReport(4, 7, types.VerdictMapToExisting),
	}

	result := BuildDiscovery(meta, clusters, []string{"n1", "n2", "n3"}, 20)

	require.Len(t, result.ProposedNew, 2)
	assert.Equal(t, 9, result.ProposedNew[0].Size)
	assert.Equal(t, 6, result.ProposedNew[1].Size)

	require.Len(t, result.MapToExisting, 2)
	assert.Equal(t, 12, result.MapToExisting[0].Size)

	require.Len(t, result.AmbiguousClusters, 1)
	assert.Len(t, result.NoiseSample, 3)
}

func TestBuildDiscoveryNoiseCap(t *testing.T) {
	noise := make([]string, 50)
	for i := range noise {
		noise[i] = "noise"
	}
	result := BuildDiscovery(types.RunMetadata{}, nil, noise, 20)
	assert.Len(t, result.NoiseSample, 20)
}

func TestBuildDiscoveryRoundTripCounts(t *testing.T) {
	// Feeding assembler output back through bucket-count aggregation must
	// reproduce the metadata counts exactly: no cluster lost or double-counted.
	clusters := []types.ClusterReport{
		clusterReport(0, 8, types.VerdictProposeNew),
		clusterReport(1, 6, types.VerdictMapToExisting),
		clusterReport(2, 5, types.VerdictAmbiguous),
		clusterReport(3, 11, types.VerdictAmbiguous),
	}
	meta := types.RunMetadata{TotalClusters: len(clusters), NoiseCount: 2}
	result := BuildDiscovery(meta, clusters, []string{"a", "b"}, 20)

	total := len(result.ProposedNew) + len(result.MapToExisting) + len(result.AmbiguousClusters)
	assert.Equal(t, meta.TotalClusters, total)
	assert.Equal(t, meta.NoiseCount, len(result.NoiseSample))

	memberTotal := 0
	for _, bucket := range [][]types.ClusterReport{
		result.ProposedNew, result.MapToExisting, result.AmbiguousClusters,
	} {
		for _, c := range bucket {
			memberTotal += c.Size
		}
	}
	assert.Equal(t, 8+6+5+11, memberTotal)
}

func TestBuildAuditWorstFirst(t *testing.T) {
	findings := []types.AuditFinding{
		{IntentID: "A", Classification: types.ClassCorrect},
		{IntentID: "B", Classification: types.ClassIncorrect},
		{IntentID: "C", Classification: types.ClassAmbiguous},
		{IntentID: "D", Classification: types.ClassIncorrect},
	}

	result := BuildAudit("run-1", findings, nil)
	require.Len(t, result.Findings, 4)
	assert.Equal(t, types.ClassIncorrect, result.Findings[0].Classification)
	assert.Equal(t, types.ClassIncorrect, result.Findings[1].Classification)
	assert.Equal(t, types.ClassAmbiguous, result.Findings[2].Classification)
	assert.Equal(t, types.ClassCorrect, result.Findings[3].Classification)

	// Stable within a class: B before D.
	assert.Equal(t, "B", result.Findings[0].IntentID)
	assert.Equal(t, "D", result.Findings[1].IntentID)
}

func TestBuildAuditReportSections(t *testing.T) {
	findings := []types.AuditFinding{
		{
			IntentID:       "QRTagActivation",
			Match:          types.MatchResult{Method: types.MethodRegex, Score: 1.0, MatchedIntentID: "QRTagLost"},
			Classification: types.ClassIncorrect,
			ProposedFix:    &types.ProposedFix{Type: types.FixTightenRegex, Pattern: `(?!.*\b(lost)\b)`},
			ExampleText:    "cannot activate my tag",
		},
	}
	candidates := []types.PromotionCandidate{
		{IntentID: "NewThing", TicketCount: 14},
		{IntentID: "RareThing", TicketCount: 1, Wait: true},
	}

	result := BuildAudit("run-2", findings, candidates)
	report := result.Report
	assert.Contains(t, report, "## Summary")
	assert.Contains(t, report, "INCORRECT: 1")
	assert.Contains(t, report, "QRTagActivation")
	assert.Contains(t, report, "tighten_regex")
	assert.Contains(t, report, "## Prioritized fixes")
	assert.Contains(t, report, "## Promotion plan")
	assert.Contains(t, report, "| NewThing | 14 | promote |")
	assert.Contains(t, report, "| RareThing | 1 | wait |")
}

func TestRenderHTML(t *testing.T) {
	html := RenderHTML("# Title\n\nsome text")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "some text")
}
