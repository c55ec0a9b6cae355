// Package service wires the discovery and audit paths to the ticket store and
// the embedding provider. Both the batch entry point and the HTTP surface go
// through the same Runner.
package service

import (
	"context"

	"intent-miner/audit"
	"intent-miner/config"
	"intent-miner/database"
	"intent-miner/embedding"
	"intent-miner/errors"
	"intent-miner/pipeline"
	"intent-miner/report"
	"intent-miner/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner owns one store/provider pair and executes runs against them.
type Runner struct {
	cfg            *config.Config
	store          *database.PostgresStore
	provider       *embedding.Provider
	intentEmbedder *embedding.IntentEmbedder
	logger         *zap.Logger
}

// NewRunner builds a Runner.
func NewRunner(cfg *config.Config, store *database.PostgresStore, provider *embedding.Provider, logger *zap.Logger) (*Runner, error) {
	intentEmbedder, err := embedding.NewIntentEmbedder(provider, cfg.IntentCacheSize, logger)
	if err != nil {
		return nil, errors.WrapError(err, "create intent embedder")
	}
	return &Runner{
		cfg:            cfg,
		store:          store,
		provider:       provider,
		intentEmbedder: intentEmbedder,
		logger:         logger,
	}, nil
}

// RunDiscovery executes one discovery batch: load eligible tickets and the
// intent snapshot, embed, cluster, match, and persist the result.
func (r *Runner) RunDiscovery(ctx context.Context) (types.DiscoveryResult, error) {
	tickets, err := r.store.ListEligibleTickets(ctx, r.cfg.MaxTickets)
	if err != nil {
		return types.DiscoveryResult{}, err
	}
	intents, err := r.loadEmbeddedIntents(ctx)
	if err != nil {
		return types.DiscoveryResult{}, err
	}

	p := pipeline.New(r.cfg, r.provider, r.logger)
	result, err := p.Discover(ctx, tickets, intents)
	if err != nil {
		return types.DiscoveryResult{}, err
	}

	if err := r.store.SaveRun(ctx, result.Metadata.RunID, "discovery", result); err != nil {
		r.logger.Error("Failed to persist discovery run", zap.Error(err))
	}
	return result, nil
}

// RunAudit re-validates all upstream intent assignments and persists the
// findings plus the promotion plan.
func (r *Runner) RunAudit(ctx context.Context) (types.AuditResult, error) {
	assignments, err := r.store.ListAssignments(ctx)
	if err != nil {
		return types.AuditResult{}, err
	}
	intents, err := r.loadEmbeddedIntents(ctx)
	if err != nil {
		return types.AuditResult{}, err
	}
	ruleRows, err := r.store.ListAuditRules(ctx)
	if err != nil {
		return types.AuditResult{}, err
	}
	rules := make([]audit.Rule, 0, len(ruleRows))
	for _, row := range ruleRows {
		rules = append(rules, audit.Rule{IntentID: row.IntentID, Pattern: row.Pattern})
	}
	table, err := audit.CompileRules(rules)
	if err != nil {
		// Malformed patterns are a configuration error, reject the whole run.
		return types.AuditResult{}, err
	}

	auditor := audit.New(table, intents, r.provider, r.cfg, r.logger)
	findings, candidates := auditor.Run(ctx, assignments)

	result := report.BuildAudit(uuid.New().String(), findings, candidates)
	if err := r.store.SaveRun(ctx, result.RunID, "audit", result); err != nil {
		r.logger.Error("Failed to persist audit run", zap.Error(err))
	}
	return result, nil
}

// loadEmbeddedIntents fetches the registry snapshot, attaches cached vectors,
// embeds whatever is missing or stale, and writes fresh vectors back.
func (r *Runner) loadEmbeddedIntents(ctx context.Context) ([]types.CanonicalIntent, error) {
	intents, err := r.store.ListCanonicalIntents(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.store.AttachIntentEmbeddings(ctx, intents, embedding.TextHash); err != nil {
		r.logger.Warn("Could not load cached intent embeddings", zap.Error(err))
	}

	hadVector := make(map[string]bool, len(intents))
	for _, intent := range intents {
		hadVector[intent.IntentID] = len(intent.Embedding) > 0
	}

	embedded := r.intentEmbedder.EmbedIntents(ctx, intents)

	for _, intent := range embedded {
		if hadVector[intent.IntentID] || len(intent.Embedding) == 0 {
			continue
		}
		if err := r.store.UpsertIntentEmbedding(ctx, intent.IntentID, embedding.TextHash(intent), intent.Embedding); err != nil {
			r.logger.Warn("Could not cache intent embedding",
				zap.String("intent", intent.IntentID), zap.Error(err))
		}
	}
	return embedded, nil
}
