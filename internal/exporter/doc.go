// Package exporter writes loaded datasets out for downstream tools.
//
// This package contains two main components:
//
// CSVWriter: writes a dataset as CSV with the header in schema order and
// cells in canonical text, optionally with a UTF-8 BOM for Excel. A
// StreamWriter is available for record-by-record output.
//
// ArrowConverter: converts a dataset into an Arrow record batch and writes
// Arrow IPC files for columnar consumers such as pandas, polars or R arrow.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("out", logger)
//	err := writer.WriteDataset("claims.csv", ds, exporter.DatasetOptions{BOMPrefix: true})
//
//	converter := exporter.NewArrowConverter()
//	err = converter.WriteIPCFile("out/claims.arrow", ds)
package exporter
