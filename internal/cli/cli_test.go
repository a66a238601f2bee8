package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
	"github.com/agrippa-data/course-r-actuaries/pkg/contracts/domain"
)

const claimHeader = "country_code,year,claim_id,incident_date,report_date,transaction_date,claim_type,amount"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "claims_2017.csv"), claimHeader+"\n"+
		"BE,2017,007,2017-05-23,2017-05-25,2017-06-02,MTPL,100\n")
	writeFile(t, filepath.Join(dir, "in", "claims_2018.csv"), claimHeader+"\n"+
		"FR,2018,120,2018-01-01,2018-01-02,2018-01-03,GTPL,NA\n")

	csvOut := filepath.Join(dir, "out", "claims.csv")
	arrowOut := filepath.Join(dir, "out", "claims.arrow")

	stdout, _, err := run(t, "load",
		"--dir", filepath.Join(dir, "in"),
		"--suffix", ".CSV",
		"--concurrency", "2",
		"--out", csvOut,
		"--arrow", arrowOut)
	require.NoError(t, err)
	assert.Contains(t, stdout, "loaded 2 records from 2 files")

	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, claimHeader+",claim_lifetime,year_month", lines[0])
	assert.Equal(t, "BE,2017,007,2017-05-23,2017-05-25,2017-06-02,MTPL,100,10,201705", lines[1])
	assert.Equal(t, "FR,2018,120,2018-01-01,2018-01-02,2018-01-03,GTPL,,2,201801", lines[2])

	info, err := os.Stat(arrowOut)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestLoadCommandNoDerive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "claims.csv"), claimHeader+"\n"+
		"BE,2017,007,2017-05-23,2017-05-25,2017-06-02,MTPL,100\n")
	out := filepath.Join(dir, "out.csv")

	_, _, err := run(t, "load", "--dir", dir, "--suffix", ".csv", "--no-derive", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), claimHeader+"\n"))
}

func TestLoadCommandWithSchemaFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data", "payments.csv"), "claim_id,paid_on\n007,23/05/2017\n")
	writeFile(t, filepath.Join(dir, "schema.yaml"), `columns:
  - name: claim_id
    type: string
  - name: paid_on
    type: date
    format: 02/01/2006
`)
	out := filepath.Join(dir, "out.csv")

	stdout, _, err := run(t, "load",
		"--dir", filepath.Join(dir, "data"),
		"--schema", filepath.Join(dir, "schema.yaml"),
		"--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "loaded 1 records from 1 files")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "claim_id,paid_on\n007,23/05/2017\n", string(data))
}

func TestLoadCommandOutDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "claims.csv"), claimHeader+"\n"+
		"BE,2017,007,2017-05-23,2017-05-25,2017-06-02,MTPL,100\n")
	outDir := filepath.Join(dir, "exports", "2017")

	_, _, err := run(t, "load",
		"--dir", filepath.Join(dir, "in"),
		"--out-dir", outDir,
		"--out", "claims.csv",
		"--arrow", "claims.arrow")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outDir, "claims.csv"))
	assert.FileExists(t, filepath.Join(outDir, "claims.arrow"))
}

func TestLoadCommandErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad", "claims.csv"), claimHeader+"\n"+
		"BE,twenty,007,2017-05-23,2017-05-25,2017-06-02,MTPL,100\n")
	writeFile(t, filepath.Join(dir, "good", "claims.csv"), claimHeader+"\n"+
		"BE,2017,007,2017-05-23,2017-05-25,2017-06-02,MTPL,100\n")
	writeFile(t, filepath.Join(dir, "config.yaml"), "loader:\n  concurrency: 0\n")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{
			name: "missing directory",
			args: []string{"load", "--dir", filepath.Join(dir, "absent")},
			code: ExitInputNotFound,
		},
		{
			name: "bad cell",
			args: []string{"load", "--dir", filepath.Join(dir, "bad")},
			code: ExitDataError,
		},
		{
			name: "invalid config",
			args: []string{"--config", filepath.Join(dir, "config.yaml"), "load", "--dir", dir},
			code: ExitConfigError,
		},
		{
			name: "output path is a directory",
			args: []string{"load", "--dir", filepath.Join(dir, "good"), "--out", dir},
			code: ExitConfigError,
		},
		{
			name: "unknown flag",
			args: []string{"load", "--bogus"},
			code: ExitUsageError,
		},
		{
			name: "unexpected argument",
			args: []string{"load", "extra"},
			code: ExitUsageError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, ExitCodeForError(err), "error: %v", err)
		})
	}
}

func TestInferCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claims.csv")
	writeFile(t, path, claimHeader+"\n"+
		"BE,2017,007,2017-05-23,2017-05-25,2017-06-02,MTPL,100.5\n")

	stdout, _, err := run(t, "infer", path)
	require.NoError(t, err)

	inferred, err := schema.Decode([]byte(stdout))
	require.NoError(t, err)
	assert.True(t, inferred.Equal(domain.ClaimTransactionSchema()), "inferred %s", inferred)
}

func TestInferCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claims.csv")
	writeFile(t, path, "claim_id,amount\n007,1\n")
	out := filepath.Join(dir, "schema.yaml")

	stdout, _, err := run(t, "infer", path, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	inferred, err := schema.LoadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"claim_id", "amount"}, inferred.Names())
}

func TestInferCommandRequiresFile(t *testing.T) {
	_, _, err := run(t, "infer")
	assert.Equal(t, ExitUsageError, ExitCodeForError(err))
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "claimload v")
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitGeneralError},
		{loaderrors.NewConfigError("bad", nil), ExitConfigError},
		{loaderrors.NewDirectoryNotFoundError("data", nil), ExitInputNotFound},
		{loaderrors.NewSchemaMismatchError("bad header"), ExitSchemaError},
		{fmt.Errorf("wrapped: %w", loaderrors.NewDateParseError("d", "x", "2006-01-02", nil)), ExitDataError},
		{loaderrors.NewMalformedFileError("a.csv", nil), ExitDataError},
		{loaderrors.NewUnsupportedFormatError("a.xls", "legacy"), ExitDataError},
		{&usageError{err: errors.New("bad flag")}, ExitUsageError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, ExitCodeForError(tt.err), "error: %v", tt.err)
	}
}
