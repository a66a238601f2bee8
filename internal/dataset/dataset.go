package dataset

import (
	"fmt"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

// Record is one row of typed values keyed by column name
type Record map[string]schema.Value

// Get returns the value of the named column. Missing columns read as a
// null string.
func (r Record) Get(name string) schema.Value {
	return r[name]
}

func (r Record) clone(extra int) Record {
	out := make(Record, len(r)+extra)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered sequence of records sharing one schema
type Dataset struct {
	schema  *schema.Schema
	records []Record
}

// New builds a dataset, checking that every record supplies a value of the
// declared type (or a null of it) for every column and nothing else.
func New(s *schema.Schema, records []Record) (*Dataset, error) {
	for i, r := range records {
		if err := conforms(s, r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	out := make([]Record, len(records))
	copy(out, records)
	return &Dataset{schema: s, records: out}, nil
}

// Empty returns a dataset with no records
func Empty(s *schema.Schema) *Dataset {
	return &Dataset{schema: s}
}

func conforms(s *schema.Schema, r Record) error {
	if len(r) != s.Len() {
		return loaderrors.NewSchemaMismatchError(
			fmt.Sprintf("record has %d fields, schema declares %d", len(r), s.Len()))
	}
	for _, c := range s.Columns() {
		v, ok := r[c.Name]
		if !ok {
			return loaderrors.NewSchemaMismatchError(fmt.Sprintf("record is missing column %q", c.Name))
		}
		if v.Type() != c.Type {
			return loaderrors.NewSchemaMismatchError(
				fmt.Sprintf("column %q holds %s, schema declares %s", c.Name, v.Type(), c.Type))
		}
	}
	return nil
}

// Schema returns the schema of the dataset
func (d *Dataset) Schema() *schema.Schema {
	if d == nil {
		return nil
	}
	return d.schema
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns the records in order. The slice is a copy; the records
// themselves are shared and must be treated as read-only.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Column returns the values of one column in record order
func (d *Dataset) Column(name string) ([]schema.Value, error) {
	if d.schema.Index(name) < 0 {
		return nil, loaderrors.NewSchemaMismatchError(fmt.Sprintf("unknown column %q", name))
	}
	values := make([]schema.Value, len(d.records))
	for i, r := range d.records {
		values[i] = r.Get(name)
	}
	return values, nil
}
