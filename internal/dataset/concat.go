package dataset

import (
	"fmt"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

// Concat stacks datasets row-wise, preserving the order of parts and of the
// records within each part. All parts must share one schema; otherwise a
// SCHEMA_MISMATCH error is returned and no dataset is produced.
//
// Concat of no parts is an empty dataset without a schema. A nil part is
// rejected as a SCHEMA_MISMATCH.
func Concat(parts ...*Dataset) (*Dataset, error) {
	if len(parts) == 0 {
		return &Dataset{}, nil
	}

	for i, p := range parts {
		if p == nil {
			return nil, loaderrors.NewSchemaMismatchError(fmt.Sprintf("cannot concatenate part %d: dataset is nil", i))
		}
	}

	first := parts[0].Schema()
	total := 0
	for i, p := range parts {
		if !first.Equal(p.Schema()) {
			return nil, loaderrors.NewSchemaMismatchError(
				fmt.Sprintf("cannot concatenate part %d: %s", i, first.Diff(p.Schema())))
		}
		total += p.Len()
	}

	records := make([]Record, 0, total)
	for _, p := range parts {
		records = append(records, p.records...)
	}
	return &Dataset{schema: first, records: records}, nil
}
