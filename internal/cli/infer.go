package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrippa-data/course-r-actuaries/internal/dataprocessing"
	"github.com/agrippa-data/course-r-actuaries/internal/infrastructure"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

type inferFlags struct {
	sheet string
	out   string
}

func newInferCommand(global *globalFlags) *cobra.Command {
	flags := &inferFlags{}

	cmd := &cobra.Command{
		Use:   "infer FILE",
		Short: "Draft a schema description from one file",
		Long: `Infer reads FILE and prints the schema it suggests as YAML. The result is
only a report: review it, fix what it got wrong and pass it to load with
--schema.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, global, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Workbook sheet to read (default first sheet)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write the description to this path instead of stdout")

	return cmd
}

func runInfer(cmd *cobra.Command, global *globalFlags, flags *inferFlags, path string) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("sheet") {
		cfg.Loader.Sheet = flags.sheet
	}

	logger, closer, err := infrastructure.NewLoggerWithWriter(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	parser := dataprocessing.NewParser(dataprocessing.ParserOptionsFromConfig(cfg.Loader), logger)
	inferred, err := parser.InferFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	data, err := schema.Encode(inferred)
	if err != nil {
		return err
	}

	if flags.out != "" {
		if err := os.WriteFile(flags.out, data, 0644); err != nil {
			return fmt.Errorf("failed to write schema description: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", flags.out)
		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}
