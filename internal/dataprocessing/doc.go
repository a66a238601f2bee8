// Package dataprocessing turns claim-transaction files into datasets.
//
// Parser reads one CSV file or XLSX workbook against an explicit schema;
// every failing cell is reported with its file, row, column and raw value.
// Loader runs the batch pipeline: discover the files in a directory, parse
// each of them (optionally in parallel), concatenate the parts in discovery
// order and apply the configured derivations.
package dataprocessing
