package pipeline

import (
	"context"
	"fmt"
	"testing"

	"intent-miner/config"
	"intent-miner/embedding"
	"intent-miner/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider maps ticket text to fixed vectors so clustering behavior is
// fully controlled by the test.
type fakeProvider struct {
	vectors map[string][]float32
}

func (f *fakeProvider) EmbedAll(ctx context.Context, texts []string) ([][]float32, embedding.BatchStats) {
	stats := embedding.BatchStats{Requested: len(texts)}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
			stats.Embedded++
		}
	}
	return out, stats
}

func testCfg() *config.Config {
	return &config.Config{
		MaxTickets:         5000,
		MaxComparisonChars: 450,
		EdgePrefilter:      0.5,
		MergeThreshold:     0.65,
		MinClusterSize:     5,
		MapThreshold:       0.78,
		HighRiskReopenRate: 0.15,
		AutomationRate:     0.70,
		NoiseSampleCap:     20,
	}
}

func nearVector(axis, salt int) []float32 {
	v := make([]float32, 8)
	v[axis] = 1
	v[(axis+1)%8] = 0.01 * float32(salt)
	return v
}

func TestDiscoverEndToEnd(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{}}

	var tickets []types.TicketRecord
	// Six login tickets forming one cluster.
	for i := 0; i < 6; i++ {
		subject := fmt.Sprintf("Login failed %d", i)
		question := "I cannot sign in to my account today"
		tickets = append(tickets, types.TicketRecord{
			ID:              fmt.Sprintf("T-%d", i),
			Subject:         subject,
			Question:        question,
			PriorConfidence: 0.8,
			AutoCloseable:   true,
		})
		provider.vectors[subject+" "+question] = nearVector(0, i)
	}
	// Two unrelated tickets (noise) plus one boilerplate ticket.
	tickets = append(tickets,
		types.TicketRecord{ID: "T-n1", Subject: "Broken cable", Question: "The charging cable snapped"},
		types.TicketRecord{ID: "T-n2", Subject: "Invoice question", Question: "Where can I download my invoice"},
		types.TicketRecord{ID: "T-auto", Subject: "Automatic reply: vacation", Question: "out of office"},
	)
	provider.vectors["Broken cable The charging cable snapped"] = nearVector(3, 0)
	provider.vectors["Invoice question Where can I download my invoice"] = nearVector(5, 0)

	intents := []types.CanonicalIntent{
		{IntentID: "LoginIssue", Embedding: nearVector(0, 2)},
		{IntentID: "ChargingFault", Embedding: nearVector(6, 0)},
	}

	p := New(testCfg(), provider, zap.NewNop())
	result, err := p.Discover(context.Background(), tickets, intents)
	require.NoError(t, err)

	meta := result.Metadata
	assert.Equal(t, 9, meta.TicketsSeen)
	assert.Equal(t, 8, meta.TicketsEligible) // boilerplate filtered
	assert.Equal(t, 8, meta.TicketsEmbedded)
	assert.Equal(t, 1, meta.TotalClusters)
	assert.Equal(t, 2, meta.NoiseCount)
	assert.False(t, meta.Aborted)
	assert.NotEmpty(t, meta.RunID)

	// The login cluster sits on top of the LoginIssue intent.
	require.Len(t, result.MapToExisting, 1)
	c := result.MapToExisting[0]
	assert.Equal(t, 6, c.Size)
	assert.Equal(t, "LoginIssue", c.NearestIntent.MatchedIntentID)
	assert.Equal(t, types.VerdictMapToExisting, c.Verdict)
	// All members auto-closeable: automation flag, no risk flag.
	assert.Contains(t, c.QualityFlags, types.FlagHighAutomation)
	assert.NotContains(t, c.QualityFlags, types.FlagHighRisk)
	assert.InDelta(t, 0.8, c.AvgConfidence, 1e-9)
	assert.Len(t, c.ExampleTexts, 3)
	assert.Contains(t, c.TopKeywords, "login")
	assert.Len(t, result.NoiseSample, 2)
	assert.Empty(t, result.ProposedNew)
	assert.Empty(t, result.AmbiguousClusters)
}

func TestDiscoverEmptyCanonicalSetProposesNew(t *testing.T) {
	provider := &fakeProvider{vectors: map[string][]float32{}}
	var tickets []types.TicketRecord
	for i := 0; i < 5; i++ {
		subject := fmt.Sprintf("Refund request %d", i)
		question := "I would like my money back for this session"
		tickets = append(tickets, types.TicketRecord{
			ID: fmt.Sprintf("R-%d", i), Subject: subject, Question: question,
		})
		provider.vectors[subject+" "+question] = nearVector(2, i)
	}

	p := New(testCfg(), provider, zap.NewNop())
	result, err := p.Discover(context.Background(), tickets, nil)
	require.NoError(t, err)

	require.Len(t, result.ProposedNew, 1)
	assert.Equal(t, types.NoneIntentID, result.ProposedNew[0].NearestIntent.MatchedIntentID)
	assert.Equal(t, 0.0, result.ProposedNew[0].NearestIntent.Score)
}

func TestDiscoverEmptyTicketSet(t *testing.T) {
	p := New(testCfg(), &fakeProvider{}, zap.NewNop())
	result, err := p.Discover(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Metadata.TicketsSeen)
	assert.Zero(t, result.Metadata.TotalClusters)
	assert.Empty(t, result.ProposedNew)
}

func TestDiscoverCapsTicketInput(t *testing.T) {
	cfg := testCfg()
	cfg.MaxTickets = 3
	provider := &fakeProvider{vectors: map[string][]float32{}}

	var tickets []types.TicketRecord
	for i := 0; i < 10; i++ {
		tickets = append(tickets, types.TicketRecord{
			ID:      fmt.Sprintf("T-%d", i),
			Subject: "Subject line",
			Question: fmt.Sprintf("question body number %d with enough text", i),
		})
	}

	p := New(cfg, provider, zap.NewNop())
	result, err := p.Discover(context.Background(), tickets, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Metadata.TicketsSeen)
	assert.Equal(t, 3, result.Metadata.TicketsEligible)
}
