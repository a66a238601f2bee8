package dataprocessing

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
	"github.com/agrippa-data/course-r-actuaries/internal/infrastructure"
	"github.com/agrippa-data/course-r-actuaries/pkg/contracts/domain"
)

func claimLine(id string) string {
	return fmt.Sprintf("BE,2017,%s,2017-05-23,2017-05-25,2017-06-02,MTPL,100", id)
}

func newTestLoader(t *testing.T, dir string, concurrency int) *Loader {
	t.Helper()
	loader, err := NewLoader(LoaderOptions{
		Dir:         dir,
		Suffix:      ".csv",
		Schema:      domain.ClaimTransactionSchema(),
		Derivations: domain.ClaimDerivations(),
		Concurrency: concurrency,
		Parser:      DefaultParserOptions(),
		Logger:      infrastructure.NopLogger(),
	})
	require.NoError(t, err)
	return loader
}

func TestLoaderConcatenatesInDiscoveryOrder(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			dir := t.TempDir()
			writeCSV(t, dir, "claims_2019.csv", claimHeader, claimLine("C1"))
			writeCSV(t, dir, "claims_2017.csv", claimHeader, claimLine("A1"), claimLine("A2"))
			writeCSV(t, dir, "claims_2018.csv", claimHeader, claimLine("B1"))
			writeCSV(t, dir, "notes.txt", "not a claim file")

			result, err := newTestLoader(t, dir, concurrency).Load(context.Background())
			require.NoError(t, err)
			require.Len(t, result.Files, 3)
			assert.NotEmpty(t, result.TraceID)

			txs := domain.ClaimTransactions(result.Dataset)
			ids := make([]string, len(txs))
			for i, tx := range txs {
				ids[i] = tx.ClaimID
			}
			assert.Equal(t, []string{"A1", "A2", "B1", "C1"}, ids)

			require.NotNil(t, txs[0].ClaimLifetime)
			assert.Equal(t, int64(10), *txs[0].ClaimLifetime)
			assert.Equal(t, "201705", txs[0].YearMonth)
		})
	}
}

func TestLoaderEmptyDirectory(t *testing.T) {
	result, err := newTestLoader(t, t.TempDir(), 2).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Dataset.Len())
	assert.Empty(t, result.Files)

	names := result.Dataset.Schema().Names()
	assert.Contains(t, names, domain.ColumnClaimLifetime)
	assert.Contains(t, names, domain.ColumnYearMonth)
}

func TestLoaderMissingDirectory(t *testing.T) {
	result, err := newTestLoader(t, filepath.Join(t.TempDir(), "absent"), 1).Load(context.Background())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, loaderrors.ErrDirectoryNotFound)
}

func TestLoaderFailsFast(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", claimHeader, claimLine("A1"))
	bad := writeCSV(t, dir, "b.csv", claimHeader, claimLine("B1"),
		"BE,2017,B2,2017-05-23,not-a-date,2017-06-02,MTPL,100")
	writeCSV(t, dir, "c.csv", claimHeader, claimLine("C1"))

	result, err := newTestLoader(t, dir, 3).Load(context.Background())
	assert.Nil(t, result)
	appErr := requireAppError(t, err, loaderrors.ErrDateParse)
	assert.Equal(t, bad, appErr.File)
	assert.Equal(t, 3, appErr.Row)
	assert.Equal(t, domain.ColumnReportDate, appErr.Column)
	assert.Equal(t, "not-a-date", appErr.Value)
}

func TestLoaderCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", claimHeader, claimLine("A1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestLoader(t, dir, 1).Load(ctx)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoaderRequiresSchema(t *testing.T) {
	_, err := NewLoader(LoaderOptions{Dir: t.TempDir(), Suffix: ".csv"})
	assert.ErrorIs(t, err, loaderrors.ErrInvalidConfig)
}

func TestLoaderTelemetry(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", claimHeader, claimLine("A1"))
	writeCSV(t, dir, "b.csv", claimHeader, claimLine("B1"), claimLine("B2"))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	telemetry, err := infrastructure.NewLoaderTelemetry(tp, mp)
	require.NoError(t, err)

	loader, err := NewLoader(LoaderOptions{
		Dir:         dir,
		Suffix:      ".csv",
		Schema:      domain.ClaimTransactionSchema(),
		Concurrency: 2,
		Parser:      DefaultParserOptions(),
		Logger:      infrastructure.NopLogger(),
		Telemetry:   telemetry,
	})
	require.NoError(t, err)

	result, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Dataset.Len())

	counts := map[string]int{}
	for _, span := range recorder.Ended() {
		counts[span.Name()]++
	}
	assert.Equal(t, 1, counts["loader.load"])
	assert.Equal(t, 2, counts["loader.parse"])
}
