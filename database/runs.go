package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	apperrors "intent-miner/errors"
)

// SaveRun persists a run report as JSON keyed by the run id.
func (s *PostgresStore) SaveRun(ctx context.Context, runID, kind string, report any) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal run report: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
        INSERT INTO runs (id, kind, report) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET report = EXCLUDED.report`,
		runID, kind, payload)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrDatabaseOperation, err.Error())
	}
	return nil
}

// GetRun fetches a persisted run report as raw JSON plus its kind.
func (s *PostgresStore) GetRun(ctx context.Context, runID string) (kind string, report json.RawMessage, err error) {
	err = s.DB.QueryRowContext(ctx, `
        SELECT kind, report FROM runs WHERE id = $1`, runID).Scan(&kind, &report)
	if err == sql.ErrNoRows {
		return "", nil, apperrors.WrapErrorf(apperrors.ErrNotFound, "run %s", runID)
	}
	if err != nil {
		return "", nil, apperrors.WrapError(apperrors.ErrDatabaseOperation, err.Error())
	}
	return kind, report, nil
}
