// Package pipeline orchestrates the discovery path: normalize, embed,
// cluster, match, flag, and assemble. One Run call is one batch job; all run
// state lives in locals owned by the call, never in package-level singletons.
package pipeline

import (
	"context"
	"time"

	"intent-miner/cluster"
	"intent-miner/config"
	"intent-miner/embedding"
	"intent-miner/match"
	"intent-miner/normalize"
	"intent-miner/report"
	"intent-miner/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BulkEmbedder is the slice of the embedding provider the discovery path
// needs. *embedding.Provider satisfies it.
type BulkEmbedder interface {
	EmbedAll(ctx context.Context, texts []string) ([][]float32, embedding.BatchStats)
}

// Pipeline runs the discovery path against a canonical-intent snapshot.
type Pipeline struct {
	cfg        *config.Config
	provider   BulkEmbedder
	normalizer *normalize.Normalizer
	logger     *zap.Logger
}

// New builds a discovery Pipeline.
func New(cfg *config.Config, provider BulkEmbedder, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		provider:   provider,
		normalizer: normalize.New(cfg.MaxComparisonChars),
		logger:     logger,
	}
}

// Discover clusters unmatched tickets and decides, per cluster, whether it
// maps onto an existing canonical intent or proposes a new one. Intents must
// already carry embeddings; tickets are never mutated. Cancellation
// mid-run still yields a result carrying whatever was computed.
func (p *Pipeline) Discover(ctx context.Context, tickets []types.TicketRecord, intents []types.CanonicalIntent) (types.DiscoveryResult, error) {
	start := time.Now()
	meta := types.RunMetadata{
		RunID:       uuid.New().String(),
		TicketsSeen: len(tickets),
	}

	if max := p.cfg.MaxTickets; max > 0 && len(tickets) > max {
		p.logger.Warn("Ticket input capped; pairwise clustering is O(n²)",
			zap.Int("seen", len(tickets)), zap.Int("cap", max))
		tickets = tickets[:max]
	}

	// Normalize and filter; keep the mapping back to ticket indices.
	var texts []string
	var eligible []int
	for i, t := range tickets {
		text, usable := p.normalizer.ComparisonText(t.Subject, t.Question)
		if !usable {
			continue
		}
		texts = append(texts, text)
		eligible = append(eligible, i)
	}
	meta.TicketsEligible = len(eligible)

	vectors, stats := p.provider.EmbedAll(ctx, texts)
	meta.TicketsEmbedded = stats.Embedded
	meta.EmbeddingErrors = stats.FailedBatches

	clusterResult, err := cluster.Run(vectors, cluster.Options{
		EdgePrefilter:  p.cfg.EdgePrefilter,
		MergeThreshold: p.cfg.MergeThreshold,
		MinClusterSize: p.cfg.MinClusterSize,
	})
	if err != nil {
		return types.DiscoveryResult{Metadata: meta}, err
	}
	meta.TotalClusters = len(clusterResult.Clusters)
	meta.NoiseCount = len(clusterResult.Noise)

	thresholds := match.Thresholds{
		MapToExisting:      p.cfg.MapThreshold,
		HighRiskReopenRate: p.cfg.HighRiskReopenRate,
		AutomationRate:     p.cfg.AutomationRate,
	}

	reports := make([]types.ClusterReport, 0, len(clusterResult.Clusters))
	for _, c := range clusterResult.Clusters {
		r, err := p.annotateCluster(c, tickets, texts, eligible, intents, thresholds)
		if err != nil {
			return types.DiscoveryResult{Metadata: meta}, err
		}
		reports = append(reports, r)
	}

	noiseTexts := make([]string, 0, len(clusterResult.Noise))
	for _, idx := range clusterResult.Noise {
		noiseTexts = append(noiseTexts, texts[idx])
	}

	meta.Elapsed = time.Since(start)
	meta.Aborted = ctx.Err() != nil

	result := report.BuildDiscovery(meta, reports, noiseTexts, p.cfg.NoiseSampleCap)
	p.logger.Info("Discovery run finished",
		zap.String("run_id", meta.RunID),
		zap.Int("eligible", meta.TicketsEligible),
		zap.Int("clusters", meta.TotalClusters),
		zap.Int("noise", meta.NoiseCount),
		zap.Duration("elapsed", meta.Elapsed))
	return result, nil
}

// annotateCluster attaches the nearest canonical match, verdict, flags, and
// summary statistics to one cluster. Member indices refer to the embedded
// text slice; eligible maps them back to ticket positions.
func (p *Pipeline) annotateCluster(
	c types.Cluster,
	tickets []types.TicketRecord,
	texts []string,
	eligible []int,
	intents []types.CanonicalIntent,
	thresholds match.Thresholds,
) (types.ClusterReport, error) {
	nearest, err := match.NearestIntent(c.Centroid, intents)
	if err != nil {
		return types.ClusterReport{}, err
	}
	verdict := thresholds.Tier(nearest.Score)

	var memberTexts []string
	var memberIDs []string
	var reopened, autoCloseable int
	var confidenceSum float64
	for _, m := range c.Members {
		ticket := tickets[eligible[m]]
		memberTexts = append(memberTexts, texts[m])
		memberIDs = append(memberIDs, ticket.ID)
		if ticket.Reopened {
			reopened++
		}
		if ticket.AutoCloseable {
			autoCloseable++
		}
		confidenceSum += ticket.PriorConfidence
	}

	size := float64(len(c.Members))
	reopenRate := float64(reopened) / size
	autoCloseRate := float64(autoCloseable) / size

	return types.ClusterReport{
		ClusterID:      c.ID,
		Size:           c.Size(),
		Verdict:        verdict,
		NearestIntent:  nearest,
		QualityFlags:   thresholds.Flags(verdict, reopenRate, autoCloseRate),
		AvgConfidence:  confidenceSum / size,
		ReopenRate:     reopenRate,
		AutoCloseRate:  autoCloseRate,
		TopKeywords:    match.TopKeywords(memberTexts, 10),
		ExampleTexts:   match.Examples(memberTexts, 3),
		MemberTicketID: memberIDs,
	}, nil
}
