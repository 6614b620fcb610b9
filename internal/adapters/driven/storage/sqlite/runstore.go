package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
)

// Ensure runStore implements the interface.
var _ driven.RunStore = (*runStore)(nil)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// Save stores a manifest and its chunk descriptors in one transaction.
func (r *runStore) Save(ctx context.Context, manifest domain.RunManifest) error {
	optionsJSON, err := json.Marshal(manifest.Options)
	if err != nil {
		return fmt.Errorf("marshalling options: %w", err)
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, finished_at, input_path, database, output_path, work_dir, mode, options)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			output_path = excluded.output_path,
			work_dir = excluded.work_dir,
			options = excluded.options
	`, manifest.ID, manifest.CreatedAt, manifest.FinishedAt, manifest.InputPath,
		manifest.Database, manifest.OutputPath, manifest.WorkDir, string(manifest.Mode), string(optionsJSON))
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_chunks WHERE run_id = ?", manifest.ID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	for _, jd := range manifest.Chunks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_chunks (run_id, chunk_index, records, input_path, output_path, job_id, state, error, stderr_tail, duration_ns)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, manifest.ID, jd.Chunk.Index, jd.Chunk.Records, jd.Chunk.InputPath, jd.Chunk.OutputPath,
			jd.JobID, string(jd.State), jd.Error, jd.StderrTail, int64(jd.Duration))
		if err != nil {
			return fmt.Errorf("inserting chunk %d: %w", jd.Chunk.Index, err)
		}
	}
	return tx.Commit()
}

// Get retrieves a manifest with its chunk descriptors by run ID.
func (r *runStore) Get(ctx context.Context, id string) (*domain.RunManifest, error) {
	row := r.store.db.QueryRowContext(ctx, `
		SELECT id, created_at, finished_at, input_path, database, output_path, work_dir, mode, options
		FROM runs WHERE id = ?
	`, id)
	manifest, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT chunk_index, records, input_path, output_path, job_id, state, error, stderr_tail, duration_ns
		FROM run_chunks WHERE run_id = ? ORDER BY chunk_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			jd    domain.JobDescriptor
			state string
			durNS int64
		)
		if err := rows.Scan(&jd.Chunk.Index, &jd.Chunk.Records, &jd.Chunk.InputPath,
			&jd.Chunk.OutputPath, &jd.JobID, &state, &jd.Error, &jd.StderrTail, &durNS); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		jd.State = domain.JobState(state)
		jd.Duration = time.Duration(durNS)
		manifest.Chunks = append(manifest.Chunks, jd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return manifest, nil
}

// List returns all manifests without chunk detail, newest first.
func (r *runStore) List(ctx context.Context) ([]domain.RunManifest, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, created_at, finished_at, input_path, database, output_path, work_dir, mode, options
		FROM runs ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var manifests []domain.RunManifest
	for rows.Next() {
		manifest, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, *manifest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return manifests, nil
}

// Delete removes a manifest; chunks cascade.
func (r *runStore) Delete(ctx context.Context, id string) error {
	_, err := r.store.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	return err
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RunManifest, error) {
	var (
		manifest    domain.RunManifest
		mode        string
		optionsJSON string
	)
	err := row.Scan(&manifest.ID, &manifest.CreatedAt, &manifest.FinishedAt, &manifest.InputPath,
		&manifest.Database, &manifest.OutputPath, &manifest.WorkDir, &mode, &optionsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	manifest.Mode = domain.ExecMode(mode)
	if err := json.Unmarshal([]byte(optionsJSON), &manifest.Options); err != nil {
		return nil, fmt.Errorf("unmarshalling options: %w", err)
	}
	return &manifest, nil
}
