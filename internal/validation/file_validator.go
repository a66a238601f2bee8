package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

// Format is a supported input file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat maps a file extension onto a supported format. Legacy and
// foreign spreadsheet formats are reported as UNSUPPORTED_FILE_FORMAT.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls", ".xlsb", ".ods":
		return "", loaderrors.NewUnsupportedFormatError(path,
			fmt.Sprintf("spreadsheet format %s cannot be read, save it as .xlsx or .csv", ext)).
			WithContext("extension", ext)
	default:
		return "", loaderrors.NewUnsupportedFormatError(path,
			fmt.Sprintf("unsupported file extension %q", ext)).
			WithContext("extension", ext)
	}
}

// FileValidator provides common file validation functions for the loader
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateSourceFile checks that path is a readable regular file in a
// supported format and returns that format.
func (v *FileValidator) ValidateSourceFile(path string) (Format, error) {
	if err := v.ValidateFile(path); err != nil {
		return "", err
	}

	format, err := DetectFormat(path)
	if err != nil {
		v.logger.Error("Unsupported source file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", err
	}
	return format, nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputFile checks that an export can be written to path: the
// parent directory is created if needed and must accept new files, and path
// itself must not be a directory.
func (v *FileValidator) ValidateOutputFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return loaderrors.NewConfigError(fmt.Sprintf("output path %s is a directory", path), nil)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return loaderrors.NewConfigError("cannot create output directory "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".claimload-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return loaderrors.NewConfigError("output directory "+dir+" is not writable", err)
	}
	tmp.Close()
	os.Remove(tmp.Name())

	v.logger.Debug("Output path validated", slog.String("file", path))
	return nil
}
