package dataset

import (
	"time"

	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

const day = 24 * time.Hour

// ClaimLifetime derives the whole number of days from the from column to
// the to column. Inconsistent data yields a negative count, not an error.
func ClaimLifetime(name, from, to string) Derivation {
	return Derivation{
		Column: schema.Column{Name: name, Type: schema.TypeInteger},
		Fn: func(r Record) schema.Value {
			start, ok1 := r.Get(from).Date()
			end, ok2 := r.Get(to).Date()
			if !ok1 || !ok2 {
				return schema.Null(schema.TypeInteger)
			}
			return schema.IntValue(DaysBetween(start, end))
		},
	}
}

// YearMonth derives a six character YYYYMM code from a date column
func YearMonth(name, from string) Derivation {
	return Derivation{
		Column: schema.Column{Name: name, Type: schema.TypeString},
		Fn: func(r Record) schema.Value {
			d, ok := r.Get(from).Date()
			if !ok {
				return schema.Null(schema.TypeString)
			}
			return schema.StringValue(d.Format("200601"))
		},
	}
}

// DaysBetween counts calendar days from start to end, ignoring time of day
// and location offsets.
func DaysBetween(start, end time.Time) int64 {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int64(e.Sub(s) / day)
}
