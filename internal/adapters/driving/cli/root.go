package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/seqsearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/seqsearch-cli/internal/adapters/driven/databases"
	"github.com/custodia-labs/seqsearch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/seqsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/seqsearch-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag   bool
	configDirFlag string
)

// Injected services. Left nil until a command needs them; tests
// replace them with mocks.
var (
	runnerService driving.SearchRunner
	dbProvider    *databases.Provider
	runStore      driven.RunStore
	configStore   driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "seqsearch",
	Short: "Chunked sequence-similarity search runner",
	Long: `seqsearch launches sequence-similarity searches (BLAST+, VSEARCH,
HMMER) against reference databases, optionally chopping the query
input into chunks that run in parallel locally or as SLURM jobs, and
merges the per-chunk results back into one output file.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.seqsearch)")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig wires the config store once.
func loadConfig() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := file.NewConfigStore(configDirFlag)
	if err != nil {
		return nil, err
	}
	configStore = store
	return configStore, nil
}

// loadDatabases wires the reference database provider once.
func loadDatabases() (*databases.Provider, error) {
	if dbProvider != nil {
		return dbProvider, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	provider, err := databases.NewProvider(cfg.GetString(file.KeyDatabaseDir), nil)
	if err != nil {
		return nil, err
	}
	dbProvider = provider
	return dbProvider, nil
}

// loadRunStore wires the SQLite run store once.
func loadRunStore() (driven.RunStore, error) {
	if runStore != nil {
		return runStore, nil
	}
	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, err
	}
	runStore = store.RunStore()
	return runStore, nil
}
