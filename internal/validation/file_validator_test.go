package validation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "claims.csv", want: FormatCSV},
		{path: "CLAIMS.CSV", want: FormatCSV},
		{path: "claims.xlsx", want: FormatXLSX},
		{path: "claims.xlsm", want: FormatXLSX},
		{path: "claims.xls", wantErr: true},
		{path: "claims.ods", wantErr: true},
		{path: "claims.txt", wantErr: true},
		{path: "claims", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, loaderrors.ErrUnsupportedFileFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateSourceFile(t *testing.T) {
	tmpDir := t.TempDir()
	v := NewFileValidator(nil)

	csvPath := filepath.Join(tmpDir, "claims.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a\n1\n"), 0644))

	format, err := v.ValidateSourceFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	_, err = v.ValidateSourceFile(filepath.Join(tmpDir, "missing.csv"))
	assert.Error(t, err)

	_, err = v.ValidateSourceFile(tmpDir)
	assert.Error(t, err)

	xlsPath := filepath.Join(tmpDir, "legacy.xls")
	require.NoError(t, os.WriteFile(xlsPath, []byte("binary"), 0644))
	_, err = v.ValidateSourceFile(xlsPath)
	assert.True(t, errors.Is(err, loaderrors.ErrUnsupportedFileFormat))
}

func TestValidateOutputFile(t *testing.T) {
	tmpDir := t.TempDir()
	v := NewFileValidator(nil)

	dir := filepath.Join(tmpDir, "nested", "out")
	require.NoError(t, v.ValidateOutputFile(filepath.Join(dir, "claims.csv")))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temporary file is left behind")

	err = v.ValidateOutputFile(dir)
	assert.True(t, errors.Is(err, loaderrors.ErrInvalidConfig))
}
