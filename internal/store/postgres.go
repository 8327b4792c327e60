package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Execer is the subset of database/sql used by the Postgres store,
// satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore keeps artifacts in the timetable_export.artifacts
// table, so generated archives survive restarts. Retention pruning
// happens in the same transaction as the insert.
type PostgresStore struct {
	db           *sql.DB
	maxArtifacts int
	ttl          time.Duration
}

func NewPostgresStore(db *sql.DB, cfg Config) *PostgresStore {
	return &PostgresStore{db: db, maxArtifacts: cfg.MaxArtifacts, ttl: cfg.TTL()}
}

func (s *PostgresStore) Put(ctx context.Context, artifact Artifact) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	if err := s.insert(ctx, tx, artifact); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}
	if err := s.pruneTx(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return rollbackErr
		}
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) insert(ctx context.Context, execer Execer, artifact Artifact) error {
	const query = `
INSERT INTO timetable_export.artifacts (
	id,
	created_at,
	total_assignments,
	total_files,
	generation_ms,
	archive
) VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := execer.ExecContext(
		ctx,
		query,
		artifact.ID,
		artifact.CreatedAt,
		artifact.TotalAssignments,
		artifact.TotalFiles,
		artifact.GenerationTime.Milliseconds(),
		artifact.Data,
	)
	return err
}

func (s *PostgresStore) pruneTx(ctx context.Context, execer Execer) error {
	const expire = `
DELETE FROM timetable_export.artifacts
WHERE created_at < $1
  AND id <> (SELECT id FROM timetable_export.artifacts ORDER BY created_at DESC LIMIT 1)
`
	if s.ttl > 0 {
		if _, err := execer.ExecContext(ctx, expire, time.Now().Add(-s.ttl)); err != nil {
			return err
		}
	}

	const enforceCap = `
DELETE FROM timetable_export.artifacts
WHERE id NOT IN (
	SELECT id FROM timetable_export.artifacts ORDER BY created_at DESC LIMIT $1
)
`
	if s.maxArtifacts > 0 {
		if _, err := execer.ExecContext(ctx, enforceCap, s.maxArtifacts); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context) (Artifact, error) {
	const query = `
SELECT id, created_at, total_assignments, total_files, generation_ms, archive
FROM timetable_export.artifacts
ORDER BY created_at DESC
LIMIT 1
`
	return s.scanOne(s.db.QueryRowContext(ctx, query))
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Artifact, error) {
	const query = `
SELECT id, created_at, total_assignments, total_files, generation_ms, archive
FROM timetable_export.artifacts
WHERE id = $1
`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) scanOne(row *sql.Row) (Artifact, error) {
	var artifact Artifact
	var generationMs int64
	err := row.Scan(
		&artifact.ID,
		&artifact.CreatedAt,
		&artifact.TotalAssignments,
		&artifact.TotalFiles,
		&generationMs,
		&artifact.Data,
	)
	if err == sql.ErrNoRows {
		return Artifact{}, ErrNoArtifact
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("scan artifact: %w", err)
	}
	artifact.GenerationTime = time.Duration(generationMs) * time.Millisecond
	return artifact, nil
}
