package dataset

import (
	"fmt"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

// Derivation computes one new column from a record. Fn must be pure and
// return a value of Type (or a null of it).
type Derivation struct {
	Column schema.Column
	Fn     func(Record) schema.Value
}

// Derive returns a new dataset whose records gain the derived columns, in
// the given order, after the existing ones. The input dataset is unchanged.
func Derive(d *Dataset, derivations ...Derivation) (*Dataset, error) {
	cols := make([]schema.Column, len(derivations))
	for i, dv := range derivations {
		if dv.Fn == nil {
			return nil, fmt.Errorf("derivation %q has no function", dv.Column.Name)
		}
		cols[i] = dv.Column
	}

	extended, err := d.schema.With(cols...)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(d.records))
	for i, r := range d.records {
		out := r.clone(len(derivations))
		for _, dv := range derivations {
			v := dv.Fn(r)
			if v.Type() != dv.Column.Type {
				return nil, loaderrors.NewSchemaMismatchError(
					fmt.Sprintf("derivation %q produced %s, declared %s", dv.Column.Name, v.Type(), dv.Column.Type))
			}
			out[dv.Column.Name] = v
		}
		records[i] = out
	}

	return &Dataset{schema: extended, records: records}, nil
}
