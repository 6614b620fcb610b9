package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage reference databases",
	Long: `Lists, installs and resolves the named reference databases that
searches can run against. Databases install under the configured
database directory (default ~/.seqsearch/databases).`,
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known reference databases",
	RunE: func(cmd *cobra.Command, _ []string) error {
		provider, err := loadDatabases()
		if err != nil {
			return err
		}
		for _, db := range provider.List() {
			installed := " "
			if path, err := provider.Path(db.Name); err == nil {
				if _, err := os.Stat(path); err == nil {
					installed = "*"
				}
			}
			cmd.Printf("%s %-12s %-5s %s\n", installed, db.Name, db.SeqType, db.Description)
		}
		cmd.Println()
		cmd.Println("* = installed")
		return nil
	},
}

var dbInstallCmd = &cobra.Command{
	Use:   "install [name]",
	Short: "Download and install a reference database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := loadDatabases()
		if err != nil {
			return err
		}
		cmd.Printf("Installing %s...\n", args[0])
		path, err := provider.Ensure(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Installed at %s\n", path)
		return nil
	},
}

var dbPathCmd = &cobra.Command{
	Use:   "path [name]",
	Short: "Print the local path of a reference database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := loadDatabases()
		if err != nil {
			return err
		}
		path, err := provider.Path(args[0])
		if err != nil {
			return err
		}
		cmd.Println(path)
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbInstallCmd)
	dbCmd.AddCommand(dbPathCmd)
	rootCmd.AddCommand(dbCmd)
}
