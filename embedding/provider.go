// Package embedding integrates the external embedding service: texts go out
// in fixed-size batches, vectors come back aligned to input order, and batch
// failures are accounted for rather than aborting the whole run.
package embedding

import (
	"context"

	"intent-miner/config"
	"intent-miner/errors"

	"go.uber.org/zap"
)

// Batcher is the single-request contract against the embedding backend.
// *llmclient.Client satisfies it.
type Batcher interface {
	EmbedBatch(ctx context.Context, host string, texts []string) ([][]float32, error)
}

// BatchStats describes how much of the input was successfully embedded.
type BatchStats struct {
	Requested     int
	Embedded      int
	FailedBatches int
}

// Provider chunks embedding work into batches and restores ordering.
type Provider struct {
	client    Batcher
	host      string
	batchSize int
	logger    *zap.Logger
}

// New builds a Provider from config. A batch size <= 0 falls back to 100.
func New(client Batcher, cfg *config.Config, logger *zap.Logger) *Provider {
	size := cfg.EmbeddingBatchSize
	if size <= 0 {
		size = 100
	}
	return &Provider{client: client, host: cfg.EmbeddingHost, batchSize: size, logger: logger}
}

// EmbedAll embeds texts in sequential batches. The returned slice is aligned
// index-for-index with the input; entries for failed batches are nil. A batch
// failure never crashes the run, it only shows up in the stats, so the caller
// always gets a partial result with metadata instead of silently dropped data.
func (p *Provider) EmbedAll(ctx context.Context, texts []string) ([][]float32, BatchStats) {
	stats := BatchStats{Requested: len(texts)}
	vectors := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		if ctx.Err() != nil {
			// Cancellation mid-run: return what has been computed so far.
			stats.FailedBatches++
			p.logger.Warn("Embedding run canceled, returning partial result",
				zap.Int("embedded", stats.Embedded),
				zap.Int("requested", stats.Requested))
			return vectors, stats
		}

		batch, err := p.client.EmbedBatch(ctx, p.host, texts[start:end])
		if err != nil {
			stats.FailedBatches++
			p.logger.Error("Embedding batch failed",
				zap.Int("batch_start", start),
				zap.Int("batch_size", end-start),
				zap.Error(err))
			continue
		}
		for i, vec := range batch {
			vectors[start+i] = vec
			stats.Embedded++
		}
	}
	return vectors, stats
}

// EmbedOne embeds a single text, for the audit path's composite queries.
func (p *Provider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.client.EmbedBatch(ctx, p.host, []string{text})
	if err != nil {
		return nil, errors.WrapError(errors.ErrEmbeddingService, err.Error())
	}
	if len(vecs) != 1 {
		return nil, errors.WrapError(errors.ErrEmbeddingService, "single embed returned wrong count")
	}
	return vecs[0], nil
}
