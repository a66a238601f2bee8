package cli

import (
	"errors"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

// Exit codes for semantic error classification.
const (
	ExitSuccess       = 0  // Load or inference completed
	ExitGeneralError  = 1  // Unknown or unclassified error
	ExitUsageError    = 2  // CLI usage error (invalid arguments or flags)
	ExitPanic         = 3  // Internal panic
	ExitConfigError   = 10 // Invalid configuration or schema description
	ExitInputNotFound = 11 // Input directory does not exist
	ExitSchemaError   = 12 // Header or dataset schemas disagree
	ExitDataError     = 13 // A cell or file could not be read
)

// usageError marks argument and flag errors
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// ExitCodeForError maps an error returned by a command to an exit code
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}

	errType, ok := loaderrors.TypeOf(err)
	if !ok {
		return ExitGeneralError
	}
	switch errType {
	case loaderrors.ErrTypeConfig:
		return ExitConfigError
	case loaderrors.ErrTypeDirectoryNotFound:
		return ExitInputNotFound
	case loaderrors.ErrTypeSchemaMismatch:
		return ExitSchemaError
	case loaderrors.ErrTypeTypeCoercion,
		loaderrors.ErrTypeDateParse,
		loaderrors.ErrTypeMalformedFile,
		loaderrors.ErrTypeUnsupportedFormat:
		return ExitDataError
	}

	return ExitGeneralError
}
