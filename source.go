package gridcsv

import "context"

// Source yields a two-dimensional ordered collection of untyped cell
// entries: rows, then cells. Any row may be shorter than others. Whether the
// first row is a header is decided by the caller, not the source.
type Source interface {
	// Values fetches the full value matrix. An empty matrix is reported by
	// the conversion loop as ErrEmptyData, not by the source.
	Values(ctx context.Context) ([]RawRow, error)
}

// MatrixSource serves an in-memory value matrix. It is the fixture source
// used in tests and by callers that fetch their grid elsewhere.
type MatrixSource struct {
	rows []RawRow
}

// NewMatrixSource creates a source over the given matrix. The outer slice is
// copied; cell entries are used as-is (nil means absent).
func NewMatrixSource(rows []RawRow) *MatrixSource {
	copied := make([]RawRow, len(rows))
	copy(copied, rows)
	return &MatrixSource{rows: copied}
}

// NewStringMatrixSource creates a source over a matrix of plain strings,
// where every cell is present. Convenient for delimited-file shaped data.
func NewStringMatrixSource(rows [][]string) *MatrixSource {
	converted := make([]RawRow, len(rows))
	for i, row := range rows {
		converted[i] = rawRowFromStrings(row)
	}
	return &MatrixSource{rows: converted}
}

// Values implements Source.
func (m *MatrixSource) Values(_ context.Context) ([]RawRow, error) {
	return m.rows, nil
}

// rawRowFromStrings converts a string slice to a RawRow with every cell present.
func rawRowFromStrings(fields []string) RawRow {
	row := make(RawRow, len(fields))
	for i, field := range fields {
		row[i] = field
	}
	return row
}
