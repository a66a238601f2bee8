package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a new CSV writer. Relative paths are resolved against
// baseDir; an empty baseDir means the working directory.
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		baseDir: baseDir,
		logger:  logger.With(slog.String("component", "csv_writer")),
	}
}

// DatasetOptions configures CSV output
type DatasetOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Comma     rune
}

// WriteDataset writes every record of ds under a header row in schema order
func (w *CSVWriter) WriteDataset(filePath string, ds *dataset.Dataset, opts DatasetOptions) error {
	if ds == nil || ds.Schema() == nil {
		return fmt.Errorf("cannot export a dataset without a schema")
	}

	stream, err := w.CreateStreamWriter(filePath, ds.Schema(), opts)
	if err != nil {
		return err
	}
	for _, record := range ds.Records() {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return err
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("Wrote CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", stream.Count()))
	return nil
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
	schema *schema.Schema
	count  int
}

// CreateStreamWriter creates a streaming writer for records of s and writes
// the header row.
func (w *CSVWriter) CreateStreamWriter(filePath string, s *schema.Schema, opts DatasetOptions) (*StreamWriter, error) {
	fullPath := ResolvePath(w.baseDir, filePath)

	w.logger.Info("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("header_count", s.Len()))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if opts.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if opts.Comma != 0 {
		writer.Comma = opts.Comma
	}
	if err := writer.Write(formatHeader(s)); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
		schema: s,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record dataset.Record) error {
	if err := s.writer.Write(formatRecord(s.schema, record)); err != nil {
		return fmt.Errorf("failed to write record %d: %w", s.count, err)
	}
	s.count++
	return nil
}

// Count returns the number of records written so far
func (s *StreamWriter) Count() int {
	return s.count
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// ResolvePath resolves a relative output path against baseDir
func ResolvePath(baseDir, filePath string) string {
	if filepath.IsAbs(filePath) || baseDir == "" {
		return filePath
	}
	return filepath.Join(baseDir, filePath)
}
