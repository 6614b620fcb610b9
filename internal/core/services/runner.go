package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/seqsearch-cli/internal/fasta"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// Ensure Runner implements the interface.
var _ driving.SearchRunner = (*Runner)(nil)

// manifestFile is the failure manifest written into a retained work
// directory after a partially failed run.
const manifestFile = "failure-manifest.toml"

// maxDefaultParallelism caps the CPU-derived default.
const maxDefaultParallelism = 32

// Runner orchestrates a chunked search run: read input, resolve the
// database, split, execute one search per chunk, filter, merge, clean
// up, and record the run.
type Runner struct {
	backends  map[domain.Algorithm]driven.SearchBackend
	local     driven.Executor
	slurm     driven.Executor
	databases driven.DatabaseProvider
	runs      driven.RunStore

	splitter Splitter
	merger   Merger
}

// NewRunner creates a search runner. slurm, databases and runs are
// optional; a nil slurm executor rejects SLURM-mode requests, a nil
// database provider restricts databases to filesystem paths, and a nil
// run store skips run history.
func NewRunner(
	backends map[domain.Algorithm]driven.SearchBackend,
	local driven.Executor,
	slurm driven.Executor,
	databases driven.DatabaseProvider,
	runs driven.RunStore,
) *Runner {
	return &Runner{
		backends:  backends,
		local:     local,
		slurm:     slurm,
		databases: databases,
		runs:      runs,
	}
}

// Run executes one chunked search. Input and scheduling problems are
// fatal and returned as errors; per-chunk search failures are isolated
// and surfaced in the report, alongside a merged output covering the
// successful chunks.
func (r *Runner) Run(ctx context.Context, req driving.RunRequest) (*driving.RunReport, error) {
	opts := req.Options
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	// Fail a misconfigured result filter before any search runs.
	if _, err := resolveFilterColumns(opts); err != nil {
		return nil, err
	}
	backend, ok := r.backends[opts.Algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedAlgorithm, opts.Algorithm)
	}
	executor, err := r.executor(req.Mode)
	if err != nil {
		return nil, err
	}

	records, err := fasta.ReadFile(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyInput
	}

	dbPath, err := r.resolveDatabase(ctx, req.Database)
	if err != nil {
		return nil, err
	}
	if err := backend.EnsureIndex(ctx, dbPath, opts.DBType); err != nil {
		return nil, fmt.Errorf("preparing database %s: %w", dbPath, err)
	}

	manifest := domain.RunManifest{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		InputPath:  req.InputPath,
		Database:   dbPath,
		OutputPath: r.outputPath(req),
		Mode:       req.Mode,
		Options:    opts,
	}

	workDir, err := os.MkdirTemp(req.WorkDir, "seqsearch-run-")
	if err != nil {
		return nil, fmt.Errorf("creating work directory: %w", err)
	}
	manifest.WorkDir = workDir

	split := req.Split
	if split.Targets() == 0 {
		split.Parts = r.parallelism(req)
	}
	chunks, err := r.splitter.Split(records, split, workDir)
	if err != nil {
		os.RemoveAll(workDir)
		return nil, err
	}

	tasks := make([]driven.Task, 0, len(chunks))
	for _, chunk := range chunks {
		spec, err := backend.BuildCommand(chunk.InputPath, dbPath, chunk.OutputPath, opts)
		if err != nil {
			os.RemoveAll(workDir)
			return nil, fmt.Errorf("building command for chunk %d: %w", chunk.Index, err)
		}
		tasks = append(tasks, driven.Task{Chunk: chunk, Command: spec})
	}

	logger.Info("run %s: %d chunks, %s mode", manifest.ID, len(chunks), req.Mode)
	descs, err := executor.Execute(ctx, tasks)
	if err != nil {
		// Submission or cancellation failure is terminal for the
		// whole run; chunk files are of no diagnostic value.
		os.RemoveAll(workDir)
		return nil, err
	}
	r.applyFilters(descs, opts)
	manifest.Chunks = descs
	manifest.FinishedAt = time.Now().UTC()

	mergeErr := r.merger.Merge(descs, manifest.OutputPath)
	report := &driving.RunReport{
		Manifest: manifest,
		Failed:   manifest.FailedChunks(),
	}

	if len(report.Failed) > 0 {
		// Keep failed chunks' files for diagnosis, drop the rest,
		// and leave a manifest explaining what happened.
		path, werr := r.writeFailureManifest(&manifest)
		if werr != nil {
			logger.Warn("writing failure manifest: %v", werr)
		}
		report.ManifestPath = path
		r.removeSucceededFiles(descs)
	} else if !req.KeepWorkDir {
		os.RemoveAll(workDir)
	}

	r.saveRun(ctx, manifest)

	if mergeErr != nil {
		return report, mergeErr
	}
	return report, nil
}

func (r *Runner) executor(mode domain.ExecMode) (driven.Executor, error) {
	switch mode {
	case domain.ExecLocal, "":
		if r.local == nil {
			return nil, fmt.Errorf("local executor not configured")
		}
		return r.local, nil
	case domain.ExecSlurm:
		if r.slurm == nil {
			return nil, fmt.Errorf("slurm execution not configured")
		}
		return r.slurm, nil
	default:
		return nil, fmt.Errorf("%w: execution mode %q", domain.ErrInvalidInput, mode)
	}
}

// resolveDatabase treats the request's database as a filesystem path
// first, then as a registry name for the database provider.
func (r *Runner) resolveDatabase(ctx context.Context, database string) (string, error) {
	if database == "" {
		return "", fmt.Errorf("%w: no database given", domain.ErrInvalidInput)
	}
	if _, err := os.Stat(database); err == nil {
		return database, nil
	}
	if r.databases == nil || strings.ContainsRune(database, os.PathSeparator) {
		return "", fmt.Errorf("database %s: %w", database, domain.ErrNotFound)
	}
	path, err := r.databases.Ensure(ctx, database)
	if err != nil {
		return "", fmt.Errorf("resolving database %s: %w", database, err)
	}
	return path, nil
}

func (r *Runner) outputPath(req driving.RunRequest) string {
	if req.OutputPath != "" {
		return req.OutputPath
	}
	base := strings.TrimSuffix(req.InputPath, filepath.Ext(req.InputPath))
	return fmt.Sprintf("%s.%sout", base, req.Options.Algorithm)
}

func (r *Runner) parallelism(req driving.RunRequest) int {
	if req.Parallelism > 0 {
		return req.Parallelism
	}
	n := runtime.NumCPU()
	if n > maxDefaultParallelism {
		n = maxDefaultParallelism
	}
	return n
}

// applyFilters runs the tabular post-filter over every successful
// chunk. A chunk whose filter fails flips to failed; the columns were
// validated up front, so this only catches malformed tool output.
func (r *Runner) applyFilters(descs []domain.JobDescriptor, opts domain.SearchOptions) {
	if opts.MinIdentity == 0 && opts.MinCoverage == 0 {
		return
	}
	for i := range descs {
		if descs[i].State != domain.JobDone {
			continue
		}
		if err := FilterTabular(descs[i].Chunk.OutputPath, opts); err != nil {
			descs[i].State = domain.JobFailed
			descs[i].Error = fmt.Sprintf("filtering results: %v", err)
		}
	}
}

func (r *Runner) writeFailureManifest(manifest *domain.RunManifest) (string, error) {
	data, err := toml.Marshal(manifest)
	if err != nil {
		return "", err
	}
	path := filepath.Join(manifest.WorkDir, manifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (r *Runner) removeSucceededFiles(descs []domain.JobDescriptor) {
	for _, jd := range descs {
		if jd.State != domain.JobDone {
			continue
		}
		for _, p := range []string{jd.Chunk.InputPath, jd.Chunk.OutputPath, jd.Chunk.StdoutPath, jd.Chunk.StderrPath} {
			os.Remove(p)
		}
	}
}

func (r *Runner) saveRun(ctx context.Context, manifest domain.RunManifest) {
	if r.runs == nil {
		return
	}
	if err := r.runs.Save(ctx, manifest); err != nil {
		logger.Warn("saving run %s: %v", manifest.ID, err)
	}
}
