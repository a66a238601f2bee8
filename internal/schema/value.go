package schema

import (
	"strconv"
	"time"
)

// Value is a typed, nullable cell value. The zero Value is a null string.
type Value struct {
	typ   Type
	valid bool
	s     string
	i     int64
	f     float64
	t     time.Time
}

// StringValue returns a non-null string value
func StringValue(s string) Value {
	return Value{typ: TypeString, valid: true, s: s}
}

// IntValue returns a non-null integer value
func IntValue(i int64) Value {
	return Value{typ: TypeInteger, valid: true, i: i}
}

// FloatValue returns a non-null floating-point value
func FloatValue(f float64) Value {
	return Value{typ: TypeFloat, valid: true, f: f}
}

// DateValue returns a non-null date value
func DateValue(t time.Time) Value {
	return Value{typ: TypeDate, valid: true, t: t}
}

// Null returns the null value of the given type
func Null(t Type) Value {
	return Value{typ: t}
}

// Type returns the type tag of the value
func (v Value) Type() Type { return v.typ }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return !v.valid }

// Text returns the string payload
func (v Value) Text() (string, bool) {
	return v.s, v.valid && v.typ == TypeString
}

// Int returns the integer payload
func (v Value) Int() (int64, bool) {
	return v.i, v.valid && v.typ == TypeInteger
}

// Float returns the floating-point payload
func (v Value) Float() (float64, bool) {
	return v.f, v.valid && v.typ == TypeFloat
}

// Date returns the date payload
func (v Value) Date() (time.Time, bool) {
	return v.t, v.valid && v.typ == TypeDate
}

// Equal reports whether two values have the same type, nullness and payload
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ || v.valid != o.valid {
		return false
	}
	if !v.valid {
		return true
	}
	switch v.typ {
	case TypeInteger:
		return v.i == o.i
	case TypeFloat:
		return v.f == o.f
	case TypeDate:
		return v.t.Equal(o.t)
	default:
		return v.s == o.s
	}
}

// String renders the value for diagnostics; nulls print as NA
func (v Value) String() string {
	if !v.valid {
		return "NA"
	}
	switch v.typ {
	case TypeInteger:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case TypeDate:
		return v.t.Format(DefaultDateLayout)
	default:
		return v.s
	}
}
