package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agrippa-data/course-r-actuaries/internal/config"
	"github.com/agrippa-data/course-r-actuaries/internal/dataprocessing"
	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
	"github.com/agrippa-data/course-r-actuaries/internal/exporter"
	"github.com/agrippa-data/course-r-actuaries/internal/infrastructure"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
	"github.com/agrippa-data/course-r-actuaries/internal/validation"
	"github.com/agrippa-data/course-r-actuaries/pkg/contracts/domain"
)

type loadFlags struct {
	dir         string
	suffix      string
	schemaFile  string
	out         string
	outDir      string
	arrow       string
	sheet       string
	concurrency int
	bom         bool
	noDerive    bool
}

func newLoadCommand(global *globalFlags) *cobra.Command {
	flags := &loadFlags{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load every matching file of a directory",
		Long: `Load discovers the files of --dir whose names end with --suffix, parses them
against the schema and concatenates them. Without --schema the claim
transaction schema is used. Null tokens such as NA read as null in numeric
and date columns only; string columns keep them.

Examples:
  claimload load --dir data --suffix .csv --out out/claims.csv
  claimload load --dir data --out-dir out --out claims.csv --arrow claims.arrow
  claimload load --dir data --suffix .xlsx --schema claims.yaml --arrow out/claims.arrow`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, global, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.dir, "dir", "d", "", "Directory to load files from")
	f.StringVarP(&flags.suffix, "suffix", "s", "", "File name suffix to match, e.g. .csv or .xlsx")
	f.StringVar(&flags.schemaFile, "schema", "", "YAML schema description")
	f.StringVarP(&flags.out, "out", "o", "", "Write the dataset as CSV to this path")
	f.StringVar(&flags.outDir, "out-dir", "", "Resolve relative --out and --arrow paths against this directory")
	f.StringVar(&flags.arrow, "arrow", "", "Write the dataset as an Arrow IPC file to this path")
	f.StringVar(&flags.sheet, "sheet", "", "Workbook sheet to read (default first sheet)")
	f.IntVar(&flags.concurrency, "concurrency", 0, "Number of files parsed at once")
	f.BoolVar(&flags.bom, "bom", false, "Prefix CSV output with a UTF-8 BOM")
	f.BoolVar(&flags.noDerive, "no-derive", false, "Skip the derived claim fields")

	return cmd
}

// apply overlays the flags that were set onto cfg
func (f *loadFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("dir") {
		cfg.Loader.Dir = f.dir
	}
	if changed("suffix") {
		cfg.Loader.Suffix = f.suffix
	}
	if changed("schema") {
		cfg.Loader.SchemaFile = f.schemaFile
	}
	if changed("sheet") {
		cfg.Loader.Sheet = f.sheet
	}
	if changed("concurrency") {
		cfg.Loader.Concurrency = f.concurrency
	}
	if changed("no-derive") {
		cfg.Loader.Derive = !f.noDerive
	}
	if changed("out") {
		cfg.Export.CSVPath = f.out
	}
	if changed("out-dir") {
		cfg.Export.Dir = f.outDir
	}
	if changed("arrow") {
		cfg.Export.ArrowPath = f.arrow
	}
	if changed("bom") {
		cfg.Export.BOMPrefix = f.bom
	}
}

func runLoad(cmd *cobra.Command, global *globalFlags, flags *loadFlags) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := infrastructure.NewLoggerWithWriter(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := resolveSchema(cfg.Loader)
	if err != nil {
		return err
	}

	var derivations []dataset.Derivation
	if cfg.Loader.Derive {
		derivations = claimDerivationsFor(s, logger)
	}

	loader, err := dataprocessing.NewLoader(dataprocessing.LoaderOptions{
		Dir:         cfg.Loader.Dir,
		Suffix:      cfg.Loader.Suffix,
		Schema:      s,
		Derivations: derivations,
		Concurrency: cfg.Loader.Concurrency,
		Parser:      dataprocessing.ParserOptionsFromConfig(cfg.Loader),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	result, err := loader.Load(cmd.Context())
	if err != nil {
		return err
	}

	if err := export(cfg.Export, result.Dataset, logger); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d records from %d files (trace %s)\n",
		result.Dataset.Len(), len(result.Files), result.TraceID)
	for _, file := range result.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", file.Path)
	}
	return nil
}

// export writes the dataset to the configured CSV and Arrow paths. Both
// paths are checked before anything is written.
func export(cfg config.ExportConfig, ds *dataset.Dataset, logger *slog.Logger) error {
	csvPath := exportPath(cfg.Dir, cfg.CSVPath)
	arrowPath := exportPath(cfg.Dir, cfg.ArrowPath)

	validator := validation.NewFileValidator(logger)
	for _, path := range []string{csvPath, arrowPath} {
		if path == "" {
			continue
		}
		if err := validator.ValidateOutputFile(path); err != nil {
			return err
		}
	}

	if csvPath != "" {
		writer := exporter.NewCSVWriter(cfg.Dir, logger)
		opts := exporter.DatasetOptions{BOMPrefix: cfg.BOMPrefix}
		if err := writer.WriteDataset(cfg.CSVPath, ds, opts); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
	}
	if arrowPath != "" {
		if err := exporter.NewArrowConverter().WriteIPCFile(arrowPath, ds); err != nil {
			return fmt.Errorf("failed to export Arrow file: %w", err)
		}
	}
	return nil
}

func exportPath(dir, path string) string {
	if path == "" {
		return ""
	}
	return exporter.ResolvePath(dir, path)
}

// resolveSchema reads the configured schema description or falls back to
// the claim transaction schema
func resolveSchema(cfg config.LoaderConfig) (*schema.Schema, error) {
	if cfg.SchemaFile == "" {
		return domain.ClaimTransactionSchema(), nil
	}
	return schema.LoadFile(cfg.SchemaFile)
}

// claimDerivationsFor returns the claim derivations when s carries their
// date inputs
func claimDerivationsFor(s *schema.Schema, logger *slog.Logger) []dataset.Derivation {
	for _, name := range []string{domain.ColumnIncidentDate, domain.ColumnTransactionDate} {
		col, ok := s.Column(name)
		if !ok || col.Type != schema.TypeDate {
			logger.Warn("Skipping claim derivations, schema lacks a date input",
				slog.String("column", name))
			return nil
		}
	}
	return domain.ClaimDerivations()
}
