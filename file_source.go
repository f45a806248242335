package gridcsv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// FileType represents the base format of an input file, compression aside.
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extXLSX    = ".xlsx"
	extParquet = ".parquet"
)

// Delimiters
const (
	csvDelimiter = ','
	tsvDelimiter = '\t'
)

// utf8BOM is stripped from the head of delimited files before parsing.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// detectFileType detects the base file type from the extension, after
// removing a compression extension if present.
func detectFileType(path string) FileType {
	base := stripCompressionExtension(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case extCSV:
		return FileTypeCSV
	case extTSV:
		return FileTypeTSV
	case extXLSX:
		return FileTypeXLSX
	case extParquet:
		return FileTypeParquet
	default:
		return FileTypeUnsupported
	}
}

// FileSource reads a value grid from a local file. Supported formats are
// CSV, TSV, XLSX and Parquet; CSV, TSV and XLSX may additionally be
// compressed with gzip, bzip2, xz or zstd (detected from the extension,
// e.g. "data.csv.gz").
//
// Delimited and XLSX cells are always present (possibly empty) text; Parquet
// nulls are delivered as absent cells. For XLSX and Parquet the first yielded
// row holds the column names of the sheet or the Parquet schema, so callers
// normally pair this source with header-derived schemas.
type FileSource struct {
	path     string
	fileType FileType
}

// NewFileSource creates a file source for the given path. The format is
// detected from the file extension.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:     path,
		fileType: detectFileType(path),
	}
}

// Path returns the file path.
func (f *FileSource) Path() string {
	return f.path
}

// FileType returns the detected base file type.
func (f *FileSource) FileType() FileType {
	return f.fileType
}

// Values implements Source.
func (f *FileSource) Values(ctx context.Context) ([]RawRow, error) {
	switch f.fileType {
	case FileTypeCSV:
		return f.readDelimited(csvDelimiter)
	case FileTypeTSV:
		return f.readDelimited(tsvDelimiter)
	case FileTypeXLSX:
		return f.readXLSX()
	case FileTypeParquet:
		return f.readParquet(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.path)
	}
}

// openReader opens the file and returns a reader that handles decompression.
func (f *FileSource) openReader() (io.Reader, func() error, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, cleanup, err := newCompressionReader(detectCompressionType(f.path), file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	closer := func() error {
		cleanupErr := cleanup()
		if closeErr := file.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}
	return reader, closer, nil
}

// readDelimited parses CSV or TSV content into a value grid. Rows may have
// varying field counts; short rows surface as absent trailing columns at
// parse time, not as read errors.
func (f *FileSource) readDelimited(delimiter rune) ([]RawRow, error) {
	reader, closer, err := f.openReader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = closer() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	csvReader := csv.NewReader(bytes.NewReader(data))
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}

	rows := make([]RawRow, len(records))
	for i, record := range records {
		rows[i] = rawRowFromStrings(record)
	}
	return rows, nil
}

// readXLSX parses the first sheet of an XLSX workbook into a value grid.
func (f *FileSource) readXLSX() ([]RawRow, error) {
	var xlsxFile *excelize.File

	if detectCompressionType(f.path) != CompressionNone {
		// excelize needs random access, so decompress into memory first
		reader, closer, err := f.openReader()
		if err != nil {
			return nil, err
		}
		defer func() { _ = closer() }()

		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		xlsxFile, err = excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open xlsx data: %w", err)
		}
	} else {
		var err error
		xlsxFile, err = excelize.OpenFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("failed to open xlsx file: %w", err)
		}
	}
	defer func() {
		_ = xlsxFile.Close()
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file: %s", f.path)
	}

	// Only the first sheet is read; one invocation converts one grid.
	rows, err := xlsxFile.GetRows(sheetNames[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetNames[0], err)
	}

	converted := make([]RawRow, len(rows))
	for i, row := range rows {
		converted[i] = rawRowFromStrings(row)
	}
	return converted, nil
}

// readParquet reads a Parquet file into a value grid via Arrow. The first
// yielded row carries the field names of the Parquet schema; null values
// become absent cells.
func (f *FileSource) readParquet(ctx context.Context) ([]RawRow, error) {
	// Parquet requires random access, so read everything into memory
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty parquet file: %s", f.path)
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer func() { _ = pqReader.Close() }()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	headerRow := make(RawRow, schema.NumFields())
	for i, field := range schema.Fields() {
		headerRow[i] = field.Name
	}

	rows := []RawRow{headerRow}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := int(batch.NumRows())
		for i := range numRows {
			row := make(RawRow, batch.NumCols())
			for j, col := range batch.Columns() {
				if col.IsNull(i) {
					continue
				}
				row[j] = col.ValueStr(i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}

	return rows, nil
}
