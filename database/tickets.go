package database

import (
	"context"
	"database/sql"
	"fmt"

	"intent-miner/types"

	"github.com/lib/pq"
)

// ListEligibleTickets returns tickets with no approved canonical match that
// were not auto-closed, oldest first, capped at limit. This enforces the
// discovery path's input precondition.
func (s *PostgresStore) ListEligibleTickets(ctx context.Context, limit int) ([]types.TicketRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT id, subject, question, answer,
               COALESCE(prior_intent, ''), prior_confidence,
               auto_closeable, reopened
        FROM tickets
        WHERE approved_intent IS NULL AND auto_closed = FALSE
        ORDER BY created_at ASC
        LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list eligible tickets: %w", err)
	}
	defer rows.Close()

	var tickets []types.TicketRecord
	for rows.Next() {
		var t types.TicketRecord
		if err := rows.Scan(&t.ID, &t.Subject, &t.Question, &t.Answer,
			&t.PriorIntent, &t.PriorConfidence, &t.AutoCloseable, &t.Reopened); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// ListAssignments aggregates tickets by their upstream-assigned intent for
// the audit path: each assignment carries up to three example texts and the
// ticket volume behind it.
func (s *PostgresStore) ListAssignments(ctx context.Context) ([]types.Assignment, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT prior_intent,
               (ARRAY_AGG(subject || ' ' || question ORDER BY created_at DESC))[1:3],
               COUNT(*)
        FROM tickets
        WHERE prior_intent IS NOT NULL AND prior_intent <> ''
        GROUP BY prior_intent
        ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []types.Assignment
	for rows.Next() {
		var a types.Assignment
		var examples pq.StringArray
		if err := rows.Scan(&a.IntentID, &examples, &a.TicketCount); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.ExampleTexts = []string(examples)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// CountTickets reports the total ticket volume, used in run metadata.
func (s *PostgresStore) CountTickets(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return count, nil
}
