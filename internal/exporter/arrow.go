package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
)

// ArrowConverter handles dataset to Arrow conversion.
type ArrowConverter struct {
	allocator memory.Allocator
}

// NewArrowConverter creates a converter with the default memory allocator.
func NewArrowConverter() *ArrowConverter {
	return &ArrowConverter{allocator: memory.DefaultAllocator}
}

// NewArrowConverterWithAllocator creates a converter with a custom allocator.
func NewArrowConverterWithAllocator(alloc memory.Allocator) *ArrowConverter {
	return &ArrowConverter{allocator: alloc}
}

// ArrowSchema maps a dataset schema onto an Arrow schema. Every field is
// nullable.
func ArrowSchema(s *schema.Schema) (*arrow.Schema, error) {
	columns := s.Columns()
	fields := make([]arrow.Field, len(columns))
	for i, col := range columns {
		dt, err := arrowType(col.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: col.Name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowType(t schema.Type) (arrow.DataType, error) {
	switch t {
	case schema.TypeString:
		return arrow.BinaryTypes.String, nil
	case schema.TypeInteger:
		return arrow.PrimitiveTypes.Int64, nil
	case schema.TypeFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case schema.TypeDate:
		return arrow.FixedWidthTypes.Date32, nil
	default:
		return nil, fmt.Errorf("unsupported column type: %s", t)
	}
}

// ToRecord converts ds into a single Arrow record batch. The caller must
// Release the result.
func (c *ArrowConverter) ToRecord(ds *dataset.Dataset) (arrow.Record, error) {
	s := ds.Schema()
	arrowSchema, err := ArrowSchema(s)
	if err != nil {
		return nil, err
	}

	builder := array.NewRecordBuilder(c.allocator, arrowSchema)
	defer builder.Release()

	columns := s.Columns()
	for _, r := range ds.Records() {
		for i, col := range columns {
			if err := appendValue(builder.Field(i), r.Get(col.Name)); err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name, err)
			}
		}
	}

	return builder.NewRecord(), nil
}

func appendValue(b array.Builder, v schema.Value) error {
	if v.IsNull() {
		b.AppendNull()
		return nil
	}

	switch builder := b.(type) {
	case *array.StringBuilder:
		s, ok := v.Text()
		if !ok {
			return fmt.Errorf("expected string, got %s", v.Type())
		}
		builder.Append(s)
	case *array.Int64Builder:
		i, ok := v.Int()
		if !ok {
			return fmt.Errorf("expected integer, got %s", v.Type())
		}
		builder.Append(i)
	case *array.Float64Builder:
		f, ok := v.Float()
		if !ok {
			return fmt.Errorf("expected float, got %s", v.Type())
		}
		builder.Append(f)
	case *array.Date32Builder:
		d, ok := v.Date()
		if !ok {
			return fmt.Errorf("expected date, got %s", v.Type())
		}
		builder.Append(arrow.Date32FromTime(d))
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

// WriteIPCFile writes ds as an Arrow IPC file holding one record batch
func (c *ArrowConverter) WriteIPCFile(path string, ds *dataset.Dataset) error {
	record, err := c.ToRecord(ds)
	if err != nil {
		return err
	}
	defer record.Release()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer, err := ipc.NewFileWriter(file, ipc.WithSchema(record.Schema()), ipc.WithAllocator(c.allocator))
	if err != nil {
		return fmt.Errorf("failed to create IPC writer: %w", err)
	}

	if err := writer.Write(record); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return file.Close()
}
