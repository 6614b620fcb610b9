package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect past search runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := loadRunStore()
		if err != nil {
			return err
		}
		manifests, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(manifests) == 0 {
			cmd.Println("No runs recorded.")
			return nil
		}
		for _, m := range manifests {
			cmd.Printf("%s  %s  %-7s  %-5s  %s\n",
				m.ID, m.CreatedAt.Format(time.DateTime), m.Options.Algorithm, m.Mode, m.InputPath)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run's per-chunk outcomes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadRunStore()
		if err != nil {
			return err
		}
		m, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Run %s (%s, %s)\n", m.ID, m.Options.Algorithm, m.Mode)
		cmd.Printf("  input:    %s\n", m.InputPath)
		cmd.Printf("  database: %s\n", m.Database)
		cmd.Printf("  output:   %s\n", m.OutputPath)
		for _, jd := range m.Chunks {
			if jd.State == domain.JobDone {
				cmd.Printf("  chunk %d: ok (%d records)\n", jd.Chunk.Index, jd.Chunk.Records)
			} else {
				cmd.Printf("  chunk %d: %s: %s\n", jd.Chunk.Index, jd.State, jd.Error)
			}
		}
		return nil
	},
}

func init() {
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
