package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RecordImportRunTx writes the audit record of one ingestion batch inside the
// batch's transaction, so the run row only exists when the batch committed
func RecordImportRunTx(ctx context.Context, tx pgx.Tx, run *ImportRun) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO import_runs (channel, filename, file_hash, accepted, rejected, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`, run.Channel, run.Filename, run.FileHash, run.Accepted, run.Rejected).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}
	return nil
}

// ListImportRuns returns recent ingestion batches, newest first
func ListImportRuns(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := Pool().Query(ctx, `
		SELECT id, channel, filename, file_hash, accepted, rejected, created_at
		FROM import_runs ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	runs := make([]ImportRun, 0)
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.Channel, &r.Filename, &r.FileHash,
			&r.Accepted, &r.Rejected, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
