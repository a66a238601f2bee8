// Package files discovers the input files of a load.
//
// Discover lists the regular files of one directory whose names end with a
// suffix, case-insensitively, sorted lexicographically by path so that
// repeated calls over the same directory contents return the same order.
// Excel lock files ("~$report.xlsx") are never returned.
//
// Example usage:
//
//	found, err := files.Discover("data/claims", ".csv")
//	log.Println(files.Paths(found))
//
// A missing directory fails with a DIRECTORY_NOT_FOUND error; a directory
// without matches yields an empty slice and no error.
package files
