package exporter

import (
	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

// formatHeader returns the column names in schema order
func formatHeader(s *schema.Schema) []string {
	return s.Names()
}

// formatRecord renders one record as canonical cell texts in schema order.
// Nulls become empty cells.
func formatRecord(s *schema.Schema, r dataset.Record) []string {
	columns := s.Columns()
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = schema.FormatCell(col, r.Get(col.Name))
	}
	return out
}
