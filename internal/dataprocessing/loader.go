package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
	"github.com/agrippa-data/course-r-actuaries/internal/files"
	"github.com/agrippa-data/course-r-actuaries/internal/infrastructure"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
	"github.com/agrippa-data/course-r-actuaries/internal/validation"
)

// LoaderOptions configures a Loader
type LoaderOptions struct {
	Dir         string
	Suffix      string
	Schema      *schema.Schema
	Derivations []dataset.Derivation

	// Concurrency bounds the number of files parsed at once; values below
	// one are treated as one.
	Concurrency int

	Parser    ParserOptions
	Logger    *slog.Logger
	Telemetry *infrastructure.LoaderTelemetry
}

// LoadResult is the outcome of a successful load
type LoadResult struct {
	Dataset  *dataset.Dataset
	Files    []files.FileInfo
	TraceID  string
	Duration time.Duration
}

// Loader runs discover, parse, concatenate and derive over one directory
type Loader struct {
	opts      LoaderOptions
	parser    *Parser
	logger    *slog.Logger
	telemetry *infrastructure.LoaderTelemetry
}

// NewLoader creates a loader. A schema is required.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	if opts.Schema == nil || opts.Schema.Len() == 0 {
		return nil, loaderrors.NewConfigError("loader requires a schema", nil)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	telemetry := opts.Telemetry
	if telemetry == nil {
		var err error
		telemetry, err = infrastructure.NewLoaderTelemetry(nil, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create loader telemetry: %w", err)
		}
	}

	return &Loader{
		opts:      opts,
		parser:    NewParser(opts.Parser, logger),
		logger:    infrastructure.WithComponent(logger, "loader"),
		telemetry: telemetry,
	}, nil
}

// Load runs the pipeline. The first failure cancels the remaining parses
// and is returned alone; no partial dataset is ever returned.
func (l *Loader) Load(ctx context.Context) (result *LoadResult, err error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	traceID := infrastructure.GetTraceID(ctx)

	ctx, span := l.telemetry.StartLoad(ctx, l.opts.Dir, l.opts.Suffix)
	var found []files.FileInfo
	defer func() {
		records := 0
		if result != nil {
			records = result.Dataset.Len()
		}
		l.telemetry.RecordLoad(ctx, span, len(found), records, err)
	}()

	l.logger.InfoContext(ctx, "Starting load",
		slog.String("dir", l.opts.Dir),
		slog.String("suffix", l.opts.Suffix),
		slog.Int("concurrency", l.opts.Concurrency))

	found, err = files.Discover(l.opts.Dir, l.opts.Suffix)
	if err != nil {
		l.logger.ErrorContext(ctx, "Discovery failed", slog.String("error", err.Error()))
		return nil, err
	}
	l.logger.DebugContext(ctx, "Discovered files",
		slog.Int("count", len(found)),
		slog.Any("files", files.Paths(found)))

	parts, err := l.parseAll(ctx, found)
	if err != nil {
		l.logger.ErrorContext(ctx, "Load failed", slog.String("error", err.Error()))
		return nil, err
	}

	var combined *dataset.Dataset
	if len(parts) == 0 {
		combined = dataset.Empty(l.opts.Schema)
	} else if combined, err = dataset.Concat(parts...); err != nil {
		return nil, err
	}

	if len(l.opts.Derivations) > 0 {
		if combined, err = dataset.Derive(combined, l.opts.Derivations...); err != nil {
			return nil, err
		}
	}

	result = &LoadResult{
		Dataset:  combined,
		Files:    found,
		TraceID:  traceID,
		Duration: time.Since(start),
	}

	l.logger.InfoContext(ctx, "Load completed",
		slog.Int("files", len(found)),
		slog.Int("records", combined.Len()),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// parseAll parses every file into its slot so the parts keep discovery order
// whatever order the parses finish in.
func (l *Loader) parseAll(ctx context.Context, found []files.FileInfo) ([]*dataset.Dataset, error) {
	parts := make([]*dataset.Dataset, len(found))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	for i, file := range found {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part, err := l.parseOne(gctx, file.Path)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

func (l *Loader) parseOne(ctx context.Context, path string) (*dataset.Dataset, error) {
	format, _ := validation.DetectFormat(path)
	ctx, span := l.telemetry.StartParse(ctx, path, string(format))

	start := time.Now()
	part, err := l.parser.ParseFile(ctx, path, l.opts.Schema)

	records := 0
	if part != nil {
		records = part.Len()
	}
	l.telemetry.RecordParse(ctx, span, string(format), records, time.Since(start), err)
	return part, err
}
