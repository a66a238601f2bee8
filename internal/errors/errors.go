package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents the kind of a loader error
type ErrorType string

const (
	ErrTypeDirectoryNotFound ErrorType = "DIRECTORY_NOT_FOUND"
	ErrTypeTypeCoercion      ErrorType = "TYPE_COERCION"
	ErrTypeDateParse         ErrorType = "DATE_PARSE"
	ErrTypeSchemaMismatch    ErrorType = "SCHEMA_MISMATCH"
	ErrTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FILE_FORMAT"
	ErrTypeMalformedFile     ErrorType = "MALFORMED_FILE"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// Sentinel values for errors.Is. They match any *AppError of the same type.
var (
	ErrDirectoryNotFound     = &AppError{Type: ErrTypeDirectoryNotFound}
	ErrTypeCoercion          = &AppError{Type: ErrTypeTypeCoercion}
	ErrDateParse             = &AppError{Type: ErrTypeDateParse}
	ErrSchemaMismatch        = &AppError{Type: ErrTypeSchemaMismatch}
	ErrUnsupportedFileFormat = &AppError{Type: ErrTypeUnsupportedFormat}
	ErrMalformedFile         = &AppError{Type: ErrTypeMalformedFile}
	ErrInvalidConfig         = &AppError{Type: ErrTypeConfig}
)

// AppError represents a loader error with the location of the bad input.
// Row is 1-based and counts the header row; zero means "not row specific".
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error

	File   string
	Row    int
	Column string
	Value  string

	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Type, e.Message)

	var loc []string
	if e.File != "" {
		loc = append(loc, "file="+e.File)
	}
	if e.Row > 0 {
		loc = append(loc, fmt.Sprintf("row=%d", e.Row))
	}
	if e.Column != "" {
		loc = append(loc, "column="+e.Column)
	}
	if len(loc) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(loc, " "))
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Message != "" {
		return e == t
	}
	return e.Type == t.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// At records the file and row the error was raised for
func (e *AppError) At(file string, row int) *AppError {
	e.File = file
	e.Row = row
	return e
}

// NewAppError creates a new loader error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewDirectoryNotFoundError reports a missing discovery directory
func NewDirectoryNotFoundError(dir string, cause error) *AppError {
	err := NewAppError(ErrTypeDirectoryNotFound, fmt.Sprintf("directory %s not found", dir), cause)
	err.File = dir
	return err
}

// NewTypeCoercionError reports a cell that does not parse as its declared type
func NewTypeCoercionError(column, raw, typeName string, cause error) *AppError {
	err := NewAppError(ErrTypeTypeCoercion, fmt.Sprintf("cannot parse %q as %s", raw, typeName), cause)
	err.Column = column
	err.Value = raw
	return err
}

// NewDateParseError reports a date cell that does not match its layout
func NewDateParseError(column, raw, layout string, cause error) *AppError {
	err := NewAppError(ErrTypeDateParse, fmt.Sprintf("cannot parse %q as date with layout %q", raw, layout), cause)
	err.Column = column
	err.Value = raw
	return err
}

// NewSchemaMismatchError reports incompatible schemas or headers
func NewSchemaMismatchError(message string) *AppError {
	return NewAppError(ErrTypeSchemaMismatch, message, nil)
}

// NewUnsupportedFormatError reports a file or cell type the parser cannot map
func NewUnsupportedFormatError(path, message string) *AppError {
	err := NewAppError(ErrTypeUnsupportedFormat, message, nil)
	err.File = path
	return err
}

// NewMalformedFileError reports a structurally broken input file
func NewMalformedFileError(path string, cause error) *AppError {
	err := NewAppError(ErrTypeMalformedFile, "malformed input file", cause)
	err.File = path
	return err
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first *AppError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}
