package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/agrippa-data/course-r-actuaries/internal/config"
)

type globalFlags struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the claimload command tree writing to the given
// streams. Each call returns an independent tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "claimload",
		Short: "Load claim transaction tables into one dataset",
		Long: `claimload discovers CSV files and XLSX workbooks in a directory, parses
each of them against an explicit schema, concatenates them in file name
order and derives claim_lifetime and year_month.

Any bad cell aborts the whole load with its file, row and column.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or schema description
  11 - Input directory not found
  12 - Schema mismatch
  13 - Unreadable cell or file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newLoadCommand(flags))
	root.AddCommand(newInferCommand(flags))
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the root command against the process streams and arguments.
// An interrupt cancels the running load.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand(os.Stdout, os.Stderr)
	err := root.ExecuteContext(ctx)
	if err != nil {
		root.PrintErrln("Error:", err)
	}
	return err
}

// loadConfig loads the configuration and applies the global flags
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// exactArgs wraps cobra.ExactArgs so arity errors map to ExitUsageError
func exactArgs(n int) cobra.PositionalArgs {
	check := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
