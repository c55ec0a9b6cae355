package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"intent-miner/types"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// IntentEmbedder embeds canonical-intent descriptive text once per registry
// snapshot and caches the vectors. Cache entries are keyed by intent id plus
// a hash of the descriptive text, so editing an intent's description
// invalidates its cached vector.
type IntentEmbedder struct {
	provider *Provider
	cache    *lru.Cache
	logger   *zap.Logger
}

// NewIntentEmbedder builds an IntentEmbedder with an LRU cache of the given
// size; sizes <= 0 fall back to 2048.
func NewIntentEmbedder(provider *Provider, cacheSize int, logger *zap.Logger) (*IntentEmbedder, error) {
	if cacheSize <= 0 {
		cacheSize = 2048
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &IntentEmbedder{provider: provider, cache: cache, logger: logger}, nil
}

// EmbedIntents fills the Embedding field of each intent, reusing cached
// vectors where the descriptive text is unchanged. Intents whose batch failed
// keep a nil embedding and are skipped by the matcher.
func (e *IntentEmbedder) EmbedIntents(ctx context.Context, intents []types.CanonicalIntent) []types.CanonicalIntent {
	var pendingTexts []string
	var pendingIdx []int

	out := make([]types.CanonicalIntent, len(intents))
	copy(out, intents)

	for i := range out {
		if len(out[i].Embedding) > 0 {
			continue // registry snapshot already carried a vector
		}
		key := cacheKey(out[i])
		if cached, ok := e.cache.Get(key); ok {
			out[i].Embedding = cached.([]float32)
			continue
		}
		pendingTexts = append(pendingTexts, out[i].DescriptiveText())
		pendingIdx = append(pendingIdx, i)
	}

	if len(pendingTexts) == 0 {
		return out
	}

	vectors, stats := e.provider.EmbedAll(ctx, pendingTexts)
	if stats.FailedBatches > 0 {
		e.logger.Warn("Some canonical-intent embeddings failed",
			zap.Int("failed_batches", stats.FailedBatches),
			zap.Int("embedded", stats.Embedded))
	}
	for j, vec := range vectors {
		if vec == nil {
			continue
		}
		i := pendingIdx[j]
		out[i].Embedding = vec
		e.cache.Add(cacheKey(out[i]), vec)
	}
	return out
}

// TextHash identifies the current descriptive text of an intent; persisted
// next to cached embeddings so stale vectors are detected.
func TextHash(intent types.CanonicalIntent) string {
	sum := sha256.Sum256([]byte(intent.DescriptiveText()))
	return hex.EncodeToString(sum[:8])
}

func cacheKey(intent types.CanonicalIntent) string {
	return intent.IntentID + ":" + TextHash(intent)
}
