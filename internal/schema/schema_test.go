package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

func claimColumns() []Column {
	return []Column{
		{Name: "country_code", Type: TypeString},
		{Name: "year", Type: TypeInteger},
		{Name: "claim_id", Type: TypeString},
		{Name: "incident_date", Type: TypeDate},
		{Name: "amount", Type: TypeFloat},
	}
}

func TestNew(t *testing.T) {
	s, err := New(claimColumns()...)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []string{"country_code", "year", "claim_id", "incident_date", "amount"}, s.Names())
	assert.Equal(t, 2, s.Index("claim_id"))
	assert.Equal(t, -1, s.Index("missing"))

	col, ok := s.Column("incident_date")
	require.True(t, ok)
	assert.Equal(t, TypeDate, col.Type)
	assert.Equal(t, DefaultDateLayout, col.Layout())
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
	}{
		{name: "duplicate name", columns: []Column{{Name: "a"}, {Name: "a", Type: TypeInteger}}},
		{name: "empty name", columns: []Column{{Name: " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns...)
			assert.True(t, errors.Is(err, loaderrors.ErrSchemaMismatch))
		})
	}
}

func TestSchema_Equal(t *testing.T) {
	base := MustNew(claimColumns()...)

	reordered := claimColumns()
	reordered[0], reordered[1] = reordered[1], reordered[0]

	retyped := claimColumns()
	retyped[2].Type = TypeInteger

	relayout := claimColumns()
	relayout[3].Format = "02/01/2006"

	tests := []struct {
		name  string
		other *Schema
		equal bool
	}{
		{name: "same columns", other: MustNew(claimColumns()...), equal: true},
		{name: "different order", other: MustNew(reordered...), equal: false},
		{name: "different type", other: MustNew(retyped...), equal: false},
		{name: "different date layout", other: MustNew(relayout...), equal: false},
		{name: "fewer columns", other: MustNew(claimColumns()[:4]...), equal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, base.Equal(tt.other))
			if tt.equal {
				assert.Empty(t, base.Diff(tt.other))
			} else {
				assert.NotEmpty(t, base.Diff(tt.other))
			}
		})
	}
}

func TestSchema_With(t *testing.T) {
	base := MustNew(claimColumns()...)

	extended, err := base.With(Column{Name: "year_month", Type: TypeString})
	require.NoError(t, err)
	assert.Equal(t, 6, extended.Len())
	assert.Equal(t, 5, base.Len(), "base schema must not change")

	_, err = base.With(Column{Name: "year", Type: TypeInteger})
	assert.Error(t, err)
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{input: "string", want: TypeString},
		{input: "character", want: TypeString},
		{input: "Integer", want: TypeInteger},
		{input: "double", want: TypeFloat},
		{input: "date", want: TypeDate},
		{input: "logical", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.input == tt.want.String() {
				assert.Equal(t, tt.input, got.String())
			}
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	d := time.Date(2017, 5, 23, 0, 0, 0, 0, time.UTC)

	s, ok := StringValue("007").Text()
	assert.True(t, ok)
	assert.Equal(t, "007", s)

	_, ok = StringValue("007").Int()
	assert.False(t, ok, "string values never expose a number")

	i, ok := IntValue(2017).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(2017), i)

	got, ok := DateValue(d).Date()
	assert.True(t, ok)
	assert.True(t, d.Equal(got))

	n := Null(TypeFloat)
	assert.True(t, n.IsNull())
	assert.Equal(t, TypeFloat, n.Type())
	assert.Equal(t, "NA", n.String())

	assert.True(t, FloatValue(1.5).Equal(FloatValue(1.5)))
	assert.False(t, FloatValue(1.5).Equal(Null(TypeFloat)))
	assert.True(t, Null(TypeDate).Equal(Null(TypeDate)))
}
