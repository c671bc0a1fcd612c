package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/terraskye/mediator"
	"github.com/terraskye/mediator/internal/config"
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "mediatrix",
		Short:   "Drive a mediator with a concurrent counter workload",
		Version: mediator.InstrumentationVersion,
		Long: `mediatrix builds a context-aware concurrent mediator around a shared
counter, sends Increment requests from several goroutines and drains the
resulting events to a set of recording listeners.

Configuration is read from mediatrix.yaml, MEDIATRIX_* environment
variables, a .env file and command line flags.

Examples:
  mediatrix run
  mediatrix run --requests 1000 --workers 8 --listeners 3
  MEDIATRIX_LOGGING_LEVEL=debug mediatrix run --rate-limit 200`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	loadViper := func() (*viper.Viper, error) {
		return config.New(configPath)
	}
	rootCmd.AddCommand(NewRunCommand(loadViper))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
