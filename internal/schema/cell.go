package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

// ParseCell converts raw cell text into a Value of the column's type.
// Blank cells yield an explicit null, as do nullTokens in non-string
// columns; a string column keeps a token such as "NA" as text. Failures are
// returned as *errors.AppError carrying the column and raw text; callers add
// the file and row.
func ParseCell(col Column, raw string, nullTokens ...string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || (col.Type != TypeString && isNullToken(trimmed, nullTokens)) {
		return Null(col.Type), nil
	}

	switch col.Type {
	case TypeString:
		// Kept verbatim: identifiers must not lose leading zeros or padding.
		return StringValue(raw), nil

	case TypeInteger:
		i, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Value{}, loaderrors.NewTypeCoercionError(col.Name, raw, col.Type.String(), err)
		}
		return IntValue(i), nil

	case TypeFloat:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Value{}, loaderrors.NewTypeCoercionError(col.Name, raw, col.Type.String(), err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, loaderrors.NewTypeCoercionError(col.Name, raw, col.Type.String(),
				fmt.Errorf("non-finite value %v", f))
		}
		return FloatValue(f), nil

	case TypeDate:
		t, err := time.Parse(col.Layout(), trimmed)
		if err != nil {
			return Value{}, loaderrors.NewDateParseError(col.Name, raw, col.Layout(), err)
		}
		return DateValue(t), nil
	}

	return Value{}, loaderrors.NewTypeCoercionError(col.Name, raw, col.Type.String(), nil)
}

// FormatCell renders a value as canonical cell text for the column.
// Nulls render as an empty cell.
func FormatCell(col Column, v Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.typ {
	case TypeInteger:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case TypeDate:
		return v.t.Format(col.Layout())
	default:
		return v.s
	}
}

func isNullToken(s string, tokens []string) bool {
	for _, tok := range tokens {
		if s == tok {
			return true
		}
	}
	return false
}
