package database

import (
	"context"
	"fmt"

	"intent-miner/types"

	"github.com/lib/pq"
	pgvector "github.com/pgvector/pgvector-go"
)

// ListCanonicalIntents returns the registry snapshot without embeddings;
// cached vectors are attached separately via AttachIntentEmbeddings.
func (s *PostgresStore) ListCanonicalIntents(ctx context.Context) ([]types.CanonicalIntent, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT intent_id, category, subcategory, description, keywords
        FROM canonical_intents
        ORDER BY intent_id`)
	if err != nil {
		return nil, fmt.Errorf("list canonical intents: %w", err)
	}
	defer rows.Close()

	var intents []types.CanonicalIntent
	for rows.Next() {
		var intent types.CanonicalIntent
		var keywords pq.StringArray
		if err := rows.Scan(&intent.IntentID, &intent.Category,
			&intent.Subcategory, &intent.Description, &keywords); err != nil {
			return nil, fmt.Errorf("scan canonical intent: %w", err)
		}
		intent.Keywords = []string(keywords)
		intents = append(intents, intent)
	}
	return intents, rows.Err()
}

// AttachIntentEmbeddings fills cached embeddings into the given snapshot.
// Cache rows whose text hash no longer matches the intent's current
// descriptive text are stale and skipped, forcing a re-embed.
func (s *PostgresStore) AttachIntentEmbeddings(ctx context.Context, intents []types.CanonicalIntent, hashOf func(types.CanonicalIntent) string) error {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT intent_id, text_hash, embedding FROM intent_embeddings`)
	if err != nil {
		return fmt.Errorf("load intent embeddings: %w", err)
	}
	defer rows.Close()

	type cached struct {
		hash string
		vec  []float32
	}
	byID := make(map[string]cached)
	for rows.Next() {
		var id, hash string
		var vec pgvector.Vector
		if err := rows.Scan(&id, &hash, &vec); err != nil {
			return fmt.Errorf("scan intent embedding: %w", err)
		}
		byID[id] = cached{hash: hash, vec: vec.Slice()}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range intents {
		c, ok := byID[intents[i].IntentID]
		if !ok || c.hash != hashOf(intents[i]) {
			continue
		}
		intents[i].Embedding = c.vec
	}
	return nil
}

// UpsertIntentEmbedding persists a freshly computed canonical embedding so
// later runs can skip the embed call while the descriptive text is unchanged.
func (s *PostgresStore) UpsertIntentEmbedding(ctx context.Context, intentID, textHash string, embedding []float32) error {
	_, err := s.DB.ExecContext(ctx, `
        INSERT INTO intent_embeddings (intent_id, text_hash, embedding, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (intent_id) DO UPDATE
        SET text_hash = EXCLUDED.text_hash,
            embedding = EXCLUDED.embedding,
            updated_at = NOW()`,
		intentID, textHash, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("upsert intent embedding: %w", err)
	}
	return nil
}

// AuditRule is one row of the expert-maintained regex rule table.
type AuditRule struct {
	IntentID string
	Pattern  string
}

// ListAuditRules returns the regex rule table in evaluation order.
func (s *PostgresStore) ListAuditRules(ctx context.Context) ([]AuditRule, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT intent_id, pattern FROM audit_rules ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list audit rules: %w", err)
	}
	defer rows.Close()

	var rules []AuditRule
	for rows.Next() {
		var r AuditRule
		if err := rows.Scan(&r.IntentID, &r.Pattern); err != nil {
			return nil, fmt.Errorf("scan audit rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}
