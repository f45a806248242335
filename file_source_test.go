package gridcsv

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected FileType
	}{
		{"data.csv", FileTypeCSV},
		{"data.tsv", FileTypeTSV},
		{"data.xlsx", FileTypeXLSX},
		{"data.parquet", FileTypeParquet},
		{"data.csv.gz", FileTypeCSV},
		{"data.tsv.zst", FileTypeTSV},
		{"data.xlsx.xz", FileTypeXLSX},
		{"data.txt", FileTypeUnsupported},
		{"data", FileTypeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, detectFileType(tt.path))
		})
	}
}

func TestFileSource_Values(t *testing.T) {
	t.Parallel()

	t.Run("CSV file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.csv")
		require.NoError(t, os.WriteFile(path, []byte("name,age\nAnn,34\n"), 0o600))

		rows, err := NewFileSource(path).Values(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, RawRow{"name", "age"}, rows[0])
		assert.Equal(t, RawRow{"Ann", "34"}, rows[1])
	})

	t.Run("CSV file with BOM", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.csv")
		content := append([]byte{0xef, 0xbb, 0xbf}, []byte("name\nAnn\n")...)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		rows, err := NewFileSource(path).Values(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, RawRow{"name"}, rows[0])
	})

	t.Run("CSV file with ragged rows", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.csv")
		require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1\n2,3\n"), 0o600))

		rows, err := NewFileSource(path).Values(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Len(t, rows[1], 1)
		assert.Len(t, rows[2], 2)
	})

	t.Run("TSV file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.tsv")
		require.NoError(t, os.WriteFile(path, []byte("name\tage\nAnn\t34\n"), 0o600))

		rows, err := NewFileSource(path).Values(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, RawRow{"Ann", "34"}, rows[1])
	})

	t.Run("Gzip compressed CSV", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.csv.gz")
		file, err := os.Create(path)
		require.NoError(t, err)
		gzWriter := gzip.NewWriter(file)
		_, err = gzWriter.Write([]byte("name,age\nAnn,34\n"))
		require.NoError(t, err)
		require.NoError(t, gzWriter.Close())
		require.NoError(t, file.Close())

		rows, err := NewFileSource(path).Values(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, RawRow{"Ann", "34"}, rows[1])
	})

	t.Run("XLSX file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.xlsx")
		xlsx := excelize.NewFile()
		require.NoError(t, xlsx.SetSheetRow("Sheet1", "A1", &[]any{"name", "age"}))
		require.NoError(t, xlsx.SetSheetRow("Sheet1", "A2", &[]any{"Ann", "34"}))
		require.NoError(t, xlsx.SaveAs(path))
		require.NoError(t, xlsx.Close())

		rows, err := NewFileSource(path).Values(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, RawRow{"name", "age"}, rows[0])
		assert.Equal(t, RawRow{"Ann", "34"}, rows[1])
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		t.Parallel()

		_, err := NewFileSource("data.txt").Values(context.Background())
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("Missing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.csv")
		_, err := NewFileSource(path).Values(context.Background())
		require.Error(t, err)
	})

	t.Run("Empty parquet file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.parquet")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		_, err := NewFileSource(path).Values(context.Background())
		require.Error(t, err)
	})
}

func TestFileSource_EndToEnd(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Age\nAnn,34\nBob,abc\n"), 0o600))

	schema := NewSchema([]Column{
		{Name: "Name", Type: TypeText, Required: true},
		{Name: "Age", Type: TypeInteger},
	})
	sink := &recordingSink{}

	opts := NewConvertOptions().
		WithHeader(true).
		WithSchema(schema).
		WithErrorPolicy(PolicySkip)
	result, err := Convert(context.Background(), NewFileSource(path), sink, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, 1, result.Written)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, [][]string{{"Ann", "34"}}, sink.records)
}
