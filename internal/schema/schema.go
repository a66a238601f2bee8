package schema

import (
	"fmt"
	"strings"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

// DefaultDateLayout is the ISO-8601 calendar date layout used when a date
// column declares no format.
const DefaultDateLayout = "2006-01-02"

// Type is a primitive column type tag
type Type int

const (
	TypeString Type = iota
	TypeInteger
	TypeFloat
	TypeDate
)

// String returns the tag name used in schema descriptions
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// ParseType converts a tag name into a Type
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "character", "text":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "float", "double", "number":
		return TypeFloat, nil
	case "date":
		return TypeDate, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", name)
	}
}

// Column declares one named, typed column. Format is a Go reference layout
// and only applies to date columns.
type Column struct {
	Name   string
	Type   Type
	Format string
}

// Layout returns the date layout of the column
func (c Column) Layout() string {
	if c.Format == "" {
		return DefaultDateLayout
	}
	return c.Format
}

func (c Column) equal(o Column) bool {
	if c.Name != o.Name || c.Type != o.Type {
		return false
	}
	return c.Type != TypeDate || c.Layout() == o.Layout()
}

// Schema is an ordered set of columns. It is immutable once built.
type Schema struct {
	columns []Column
	index   map[string]int
}

// New builds a schema from the given columns in order
func New(columns ...Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		if strings.TrimSpace(c.Name) == "" {
			return nil, loaderrors.NewSchemaMismatchError("column name must not be empty")
		}
		if _, dup := s.index[c.Name]; dup {
			return nil, loaderrors.NewSchemaMismatchError(fmt.Sprintf("duplicate column %q", c.Name))
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s, nil
}

// MustNew is like New but panics on error. Use it for schemas fixed at
// compile time.
func MustNew(columns ...Column) *Schema {
	s, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.columns)
}

// Columns returns a copy of the columns in order
func (s *Schema) Columns() []Column {
	if s == nil {
		return nil
	}
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the column names in order
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (s *Schema) Column(name string) (Column, bool) {
	i := s.Index(name)
	if i < 0 {
		return Column{}, false
	}
	return s.columns[i], true
}

// Index returns the position of the named column, or -1
func (s *Schema) Index(name string) int {
	if s == nil {
		return -1
	}
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Equal reports whether both schemas declare the same columns, in the same
// order, with the same types and date layouts.
func (s *Schema) Equal(o *Schema) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := range s.Columns() {
		if !s.columns[i].equal(o.columns[i]) {
			return false
		}
	}
	return true
}

// Diff describes the first difference between two schemas, or "" if equal
func (s *Schema) Diff(o *Schema) string {
	if s.Len() != o.Len() {
		return fmt.Sprintf("column count %d != %d (%s vs %s)", s.Len(), o.Len(), s, o)
	}
	for i := 0; i < s.Len(); i++ {
		a, b := s.columns[i], o.columns[i]
		if !a.equal(b) {
			return fmt.Sprintf("column %d: %s vs %s", i, describeColumn(a), describeColumn(b))
		}
	}
	return ""
}

// With returns a new schema extended by the given columns
func (s *Schema) With(columns ...Column) (*Schema, error) {
	all := append(s.Columns(), columns...)
	return New(all...)
}

// String renders the schema as name:type pairs
func (s *Schema) String() string {
	if s == nil {
		return "[]"
	}
	parts := make([]string, len(s.columns))
	for i, c := range s.columns {
		parts[i] = describeColumn(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func describeColumn(c Column) string {
	if c.Type == TypeDate && c.Format != "" {
		return fmt.Sprintf("%s:%s(%s)", c.Name, c.Type, c.Format)
	}
	return fmt.Sprintf("%s:%s", c.Name, c.Type)
}
