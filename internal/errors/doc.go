// Package errors defines the error taxonomy of the claim loader.
//
// Every failure raised while discovering, parsing, concatenating or deriving
// data is an *AppError carrying an ErrorType and, for cell-level failures,
// the location of the offending input:
//
//	DIRECTORY_NOT_FOUND      discovery directory is missing
//	TYPE_COERCION            a cell does not parse as its declared type
//	DATE_PARSE               a date cell does not match its layout
//	SCHEMA_MISMATCH          headers or datasets disagree with the schema
//	UNSUPPORTED_FILE_FORMAT  a file or spreadsheet cell cannot be mapped
//	MALFORMED_FILE           the file is structurally broken
//	CONFIG                   invalid configuration
//
// Errors are matched by kind with the standard library:
//
//	if errors.Is(err, loaderrors.ErrTypeCoercion) {
//	    var appErr *loaderrors.AppError
//	    errors.As(err, &appErr)
//	    fmt.Println(appErr.File, appErr.Row, appErr.Column, appErr.Value)
//	}
//
// None of these errors are recovered inside the loader; they propagate to
// the caller with enough context to locate the bad input.
package errors
