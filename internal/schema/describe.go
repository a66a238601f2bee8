package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

type description struct {
	Columns []columnDescription `yaml:"columns"`
}

type columnDescription struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Format string `yaml:"format,omitempty"`
}

// Decode builds a schema from its YAML description
func Decode(data []byte) (*Schema, error) {
	var desc description
	if err := yaml.UnmarshalStrict(data, &desc); err != nil {
		return nil, loaderrors.NewConfigError("invalid schema description", err)
	}
	if len(desc.Columns) == 0 {
		return nil, loaderrors.NewConfigError("schema description declares no columns", nil)
	}

	columns := make([]Column, 0, len(desc.Columns))
	for i, cd := range desc.Columns {
		t, err := ParseType(cd.Type)
		if err != nil {
			return nil, loaderrors.NewConfigError(fmt.Sprintf("column %d (%s)", i, cd.Name), err)
		}
		columns = append(columns, Column{Name: cd.Name, Type: t, Format: cd.Format})
	}
	return New(columns...)
}

// LoadFile reads a YAML schema description from disk
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Decode(data)
}

// Encode renders a schema as a YAML description that Decode accepts
func Encode(s *Schema) ([]byte, error) {
	desc := description{Columns: make([]columnDescription, 0, s.Len())}
	for _, c := range s.Columns() {
		cd := columnDescription{Name: c.Name, Type: c.Type.String()}
		if c.Type == TypeDate {
			cd.Format = c.Format
		}
		desc.Columns = append(desc.Columns, cd)
	}
	return yaml.Marshal(desc)
}
