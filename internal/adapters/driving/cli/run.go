package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/seqsearch-cli/internal/adapters/driven/backends"
	"github.com/custodia-labs/seqsearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/seqsearch-cli/internal/adapters/driven/exec"
	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/seqsearch-cli/internal/core/services"
)

var (
	runDatabase    string
	runAlgorithm   string
	runQueryType   string
	runDBType      string
	runOutput      string
	runOutFormat   string
	runEValue      float64
	runMaxTargets  int
	runMinIdentity float64
	runMinCoverage float64
	runThreads     int
	runExtra       []string

	runParts       int
	runSeqsPerPart int
	runPartSize    string
	runSplitPolicy string
	runParallel    int
	runTimeout     time.Duration
	runKeepWorkDir bool

	runSlurm          bool
	runSlurmPartition string
	runSlurmQOS       string
	runSlurmTime      string
	runSlurmMemory    string
	runSlurmCPUs      int
)

var runCmd = &cobra.Command{
	Use:   "run [query.fasta]",
	Short: "Run a chunked similarity search",
	Long: `Splits the query FASTA into chunks, searches every chunk against the
database with the selected algorithm, and concatenates the per-chunk
results in input order into one output file.

The database may be a filesystem path or the name of a known reference
database (see "seqsearch db list"), which is downloaded on first use.

Chunks run in a bounded local worker pool by default, or as one SLURM
job each with --slurm.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	flags := runCmd.Flags()
	flags.StringVarP(&runDatabase, "db", "d", "", "reference database path or registry name (required)")
	flags.StringVarP(&runAlgorithm, "algorithm", "a", "", "search algorithm: blast, vsearch or hmmer")
	flags.StringVar(&runQueryType, "query-type", string(domain.Nucleotide), "query sequence type: nucl or prot")
	flags.StringVar(&runDBType, "db-type", string(domain.Nucleotide), "database sequence type: nucl or prot")
	flags.StringVarP(&runOutput, "out", "o", "", "merged output file (default <query>.<algorithm>out)")
	flags.StringVar(&runOutFormat, "outfmt", "", "tool output format, e.g. '6 qseqid sseqid pident qcovs evalue'")
	flags.Float64VarP(&runEValue, "evalue", "e", 0, "expectation value threshold")
	flags.IntVar(&runMaxTargets, "max-targets", 0, "maximum hits reported per query")
	flags.Float64Var(&runMinIdentity, "min-identity", 0, "post-filter: minimum identity fraction (needs pident in outfmt)")
	flags.Float64Var(&runMinCoverage, "min-coverage", 0, "post-filter: minimum query coverage fraction (needs qcovs in outfmt)")
	flags.IntVar(&runThreads, "threads", 1, "threads per search invocation")
	flags.StringArrayVar(&runExtra, "extra", nil, "extra arguments appended to the tool command line")

	flags.IntVarP(&runParts, "parts", "n", 0, "number of chunks (default: parallelism)")
	flags.IntVar(&runSeqsPerPart, "seqs-per-part", 0, "target sequences per chunk")
	flags.StringVar(&runPartSize, "part-size", "", "target chunk size, e.g. 200MB")
	flags.StringVar(&runSplitPolicy, "split-policy", "", "when chunks exceed records: clamp or strict")
	flags.IntVarP(&runParallel, "parallel", "p", 0, "concurrent local searches (default: CPU count, capped at 32)")
	flags.DurationVar(&runTimeout, "timeout", 0, "per-chunk subprocess timeout (default: none)")
	flags.BoolVar(&runKeepWorkDir, "keep-workdir", false, "keep chunk files after a successful run")

	flags.BoolVar(&runSlurm, "slurm", false, "submit one SLURM job per chunk instead of running locally")
	flags.StringVar(&runSlurmPartition, "slurm-partition", "", "SLURM partition")
	flags.StringVar(&runSlurmQOS, "slurm-qos", "", "SLURM quality of service")
	flags.StringVar(&runSlurmTime, "slurm-time", "", "SLURM wall-clock limit, e.g. 01:00:00")
	flags.StringVar(&runSlurmMemory, "slurm-mem", "", "SLURM memory request, e.g. 4G")
	flags.IntVar(&runSlurmCPUs, "slurm-cpus", 0, "SLURM CPUs per task")

	_ = runCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req, err := buildRunRequest(args[0])
	if err != nil {
		return err
	}
	runner, err := buildRunner(req.Parallelism)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx, req)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d chunks failed", len(report.Failed), len(report.Manifest.Chunks))
	}
	return nil
}

func buildRunRequest(input string) (driving.RunRequest, error) {
	cfg, err := loadConfig()
	if err != nil {
		return driving.RunRequest{}, err
	}

	algorithm := runAlgorithm
	if algorithm == "" {
		algorithm = cfg.GetString(file.KeyDefaultAlgorithm)
	}
	if algorithm == "" {
		algorithm = string(domain.AlgorithmBLAST)
	}
	policy := runSplitPolicy
	if policy == "" {
		policy = cfg.GetString(file.KeySplitPolicy)
	}

	var partSizeBytes int64
	if runPartSize != "" {
		size, err := humanize.ParseBytes(runPartSize)
		if err != nil {
			return driving.RunRequest{}, fmt.Errorf("parsing --part-size: %w", err)
		}
		partSizeBytes = int64(size)
	}

	parallel := runParallel
	if parallel == 0 {
		parallel = cfg.GetInt(file.KeyParallelism)
	}

	mode := domain.ExecLocal
	if runSlurm {
		mode = domain.ExecSlurm
	}

	return driving.RunRequest{
		InputPath:  input,
		Database:   runDatabase,
		OutputPath: runOutput,
		Options: domain.SearchOptions{
			Algorithm:   domain.Algorithm(algorithm),
			QueryType:   domain.SequenceType(runQueryType),
			DBType:      domain.SequenceType(runDBType),
			OutFormat:   runOutFormat,
			EValue:      runEValue,
			MaxTargets:  runMaxTargets,
			MinIdentity: runMinIdentity,
			MinCoverage: runMinCoverage,
			Threads:     runThreads,
			Extra:       runExtra,
		},
		Split: domain.SplitSpec{
			Parts:          runParts,
			RecordsPerPart: runSeqsPerPart,
			PartSizeBytes:  partSizeBytes,
			Policy:         domain.SplitPolicy(policy),
		},
		Mode:        mode,
		Parallelism: parallel,
		KeepWorkDir: runKeepWorkDir,
	}, nil
}

// buildRunner assembles the runner service from the real adapters,
// unless a test injected one. parallelism is the resolved
// flag-or-config bound from the run request; it limits the local pool
// as well as defaulting the chunk count.
func buildRunner(parallelism int) (driving.SearchRunner, error) {
	if runnerService != nil {
		return runnerService, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	provider, err := loadDatabases()
	if err != nil {
		return nil, err
	}
	runs, err := loadRunStore()
	if err != nil {
		return nil, err
	}

	cmdRunner := exec.NewRunner()
	local, slurm := buildExecutors(cfg, cmdRunner, parallelism)

	return services.NewRunner(
		backends.DefaultRegistry(cmdRunner),
		local,
		slurm,
		provider,
		runs,
	), nil
}

// buildExecutors creates the per-invocation executors.
func buildExecutors(cfg driven.ConfigStore, cmdRunner driven.CommandRunner, parallelism int) (*exec.LocalExecutor, *exec.SlurmExecutor) {
	local := exec.NewLocalExecutor(cmdRunner, parallelism)
	local.Timeout = runTimeout

	slurmOpts := exec.SlurmOptions{
		Partition: firstNonEmpty(runSlurmPartition, cfg.GetString(file.KeySlurmPartition)),
		QOS:       firstNonEmpty(runSlurmQOS, cfg.GetString(file.KeySlurmQOS)),
		Time:      firstNonEmpty(runSlurmTime, cfg.GetString(file.KeySlurmTime)),
		Memory:    firstNonEmpty(runSlurmMemory, cfg.GetString(file.KeySlurmMemory)),
		CPUs:      runSlurmCPUs,
	}
	return local, exec.NewSlurmExecutor(cmdRunner, slurmOpts)
}

func printReport(cmd *cobra.Command, report *driving.RunReport) {
	manifest := report.Manifest
	for _, jd := range manifest.Chunks {
		if jd.State == domain.JobDone {
			cmd.Printf("  chunk %d: ok (%d records, %s)\n",
				jd.Chunk.Index, jd.Chunk.Records, jd.Duration.Round(time.Millisecond))
		} else {
			cmd.Printf("  chunk %d: FAILED: %s\n", jd.Chunk.Index, jd.Error)
		}
	}
	if len(report.Failed) == 0 {
		cmd.Printf("Merged %d chunks into %s\n", len(manifest.Chunks), manifest.OutputPath)
		return
	}
	cmd.Printf("Run incomplete: chunks %v failed.\n", report.Failed)
	if report.ManifestPath != "" {
		cmd.Printf("Failed chunk files and manifest kept at %s\n", report.ManifestPath)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
