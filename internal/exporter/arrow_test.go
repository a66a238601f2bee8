package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
)

func TestArrowSchema(t *testing.T) {
	s, err := ArrowSchema(claimsSchema)
	require.NoError(t, err)
	require.Equal(t, 4, s.NumFields())

	assert.Equal(t, arrow.STRING, s.Field(0).Type.ID())
	assert.Equal(t, arrow.INT64, s.Field(1).Type.ID())
	assert.Equal(t, arrow.DATE32, s.Field(2).Type.ID())
	assert.Equal(t, arrow.FLOAT64, s.Field(3).Type.ID())
	for _, f := range s.Fields() {
		assert.True(t, f.Nullable)
	}
}

func TestArrowConverter_ToRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	converter := NewArrowConverterWithAllocator(mem)
	record, err := converter.ToRecord(testDataset(t))
	require.NoError(t, err)
	defer record.Release()

	require.Equal(t, int64(2), record.NumRows())
	require.Equal(t, int64(4), record.NumCols())

	ids := record.Column(0).(*array.String)
	assert.Equal(t, "007", ids.Value(0))
	assert.Equal(t, "120", ids.Value(1))

	years := record.Column(1).(*array.Int64)
	assert.Equal(t, int64(2017), years.Value(0))
	assert.True(t, years.IsNull(1))

	dates := record.Column(2).(*array.Date32)
	assert.Equal(t, time.Date(2017, 5, 23, 0, 0, 0, 0, time.UTC), dates.Value(0).ToTime())
	assert.True(t, dates.IsNull(1))

	amounts := record.Column(3).(*array.Float64)
	assert.Equal(t, 1250.5, amounts.Value(0))
	assert.Equal(t, -10.0, amounts.Value(1))
	assert.Equal(t, 0, amounts.NullN())
}

func TestArrowConverter_EmptyDataset(t *testing.T) {
	record, err := NewArrowConverter().ToRecord(dataset.Empty(claimsSchema))
	require.NoError(t, err)
	defer record.Release()

	assert.Equal(t, int64(0), record.NumRows())
	assert.Equal(t, int64(4), record.NumCols())
}

func TestArrowConverter_WriteIPCFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arrow", "claims.arrow")
	require.NoError(t, NewArrowConverter().WriteIPCFile(path, testDataset(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	reader, err := ipc.NewFileReader(f)
	require.NoError(t, err)
	defer reader.Close()

	require.Equal(t, 1, reader.NumRecords())
	record, err := reader.Record(0)
	require.NoError(t, err)

	assert.Equal(t, int64(2), record.NumRows())
	assert.Equal(t, "claim_id", record.Schema().Field(0).Name)
	assert.True(t, record.Column(1).IsNull(1))
}
