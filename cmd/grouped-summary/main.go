// Command grouped-summary computes OLTT grouped summary statistics for every
// participant folder of a study tree and writes them back as workbooks.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"olttstats/internal/config"
	"olttstats/internal/infrastructure"
)

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configFile string
	envFile    string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "grouped-summary",
		Short: "OLTT grouped summary statistics",
		Long: `Walks a folder tree, finds the free recall, cued recall and recognition
exports of each participant, and writes per-category sum, mean and median
statistics back to the participant folder as an XLSX workbook.`,
		Version:      config.AppVersion,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (default: grouped-summary.yaml, configs/grouped-summary.yaml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before environment overrides")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newSummarizeCmd(opts))
	cmd.AddCommand(newInspectCmd())

	return cmd
}

// loadConfig reads defaults, the config file, the env file and the
// environment, then applies the shared flags.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: o.configFile, EnvFile: o.envFile})
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogger initializes the global logger, closing the log file on cleanup
func setupLogger(cfg *config.Config) (func(), error) {
	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		return nil, err
	}
	return func() { _ = infrastructure.CloseLogFile() }, nil
}
