package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Infer scans the rows under header and proposes a schema. It is a
// reporting aid: the result is meant to be reviewed, edited and passed back
// explicitly, never applied behind the caller's back.
//
// Each column is the narrowest of integer, float, date (ISO layout) and
// string that accepts every non-null value. Digit strings with a leading
// zero force string, since a number would drop the zero. Blank header
// names, such as the unnamed row-name column R writes, get a placeholder
// from PlaceholderName.
func Infer(header []string, rows [][]string, nullTokens ...string) (*Schema, error) {
	columns := make([]Column, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = PlaceholderName(j)
		}
		columns[j] = Column{Name: name, Type: inferColumn(rows, j, nullTokens)}
	}
	return New(columns...)
}

// PlaceholderName names the unnamed column at zero-based position i
func PlaceholderName(i int) string {
	return fmt.Sprintf("X%d", i+1)
}

func inferColumn(rows [][]string, j int, nullTokens []string) Type {
	isInt, isFloat, isDate := true, true, true
	seen := false

	for _, row := range rows {
		if j >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[j])
		if v == "" || isNullToken(v, nullTokens) {
			continue
		}
		seen = true

		if hasLeadingZero(v) {
			return TypeString
		}
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if f, err := strconv.ParseFloat(v, 64); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				isFloat = false
			}
		}
		if isDate {
			if _, err := time.Parse(DefaultDateLayout, v); err != nil {
				isDate = false
			}
		}
		if !isInt && !isFloat && !isDate {
			return TypeString
		}
	}

	switch {
	case !seen:
		return TypeString
	case isInt:
		return TypeInteger
	case isFloat:
		return TypeFloat
	case isDate:
		return TypeDate
	default:
		return TypeString
	}
}

// hasLeadingZero reports digit strings such as "007" that a numeric parse
// would silently shorten.
func hasLeadingZero(v string) bool {
	if len(v) < 2 || v[0] != '0' {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
