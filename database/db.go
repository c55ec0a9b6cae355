package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	log.Println("Successfully connected to the database")
	return &PostgresStore{DB: db}, nil
}

// EnsureSchema creates the required tables if they do not already exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS tickets (
            id TEXT PRIMARY KEY,
            subject TEXT NOT NULL DEFAULT '',
            question TEXT NOT NULL DEFAULT '',
            answer TEXT NOT NULL DEFAULT '',
            prior_intent TEXT,
            prior_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
            auto_closeable BOOLEAN NOT NULL DEFAULT FALSE,
            auto_closed BOOLEAN NOT NULL DEFAULT FALSE,
            reopened BOOLEAN NOT NULL DEFAULT FALSE,
            approved_intent TEXT,
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_prior_intent ON tickets(prior_intent)`,
		`CREATE TABLE IF NOT EXISTS canonical_intents (
            intent_id TEXT PRIMARY KEY,
            category TEXT NOT NULL,
            subcategory TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            keywords TEXT[] NOT NULL DEFAULT '{}'::TEXT[]
        )`,
		`CREATE TABLE IF NOT EXISTS intent_embeddings (
            intent_id TEXT PRIMARY KEY REFERENCES canonical_intents(intent_id) ON DELETE CASCADE,
            text_hash TEXT NOT NULL,
            embedding vector(1536) NOT NULL,
            updated_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS audit_rules (
            position INT PRIMARY KEY,
            intent_id TEXT NOT NULL,
            pattern TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS runs (
            id UUID PRIMARY KEY,
            kind TEXT NOT NULL,
            report JSONB NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
