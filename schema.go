package gridcsv

import (
	"fmt"
	"strings"
)

// Column declares one schema column: a display name used in error messages
// and header output, a declared data type, and whether a value is required.
// Names are not required to be unique; the column position in the schema is
// the sole correspondence key to raw row positions.
type Column struct {
	// Name is the display identifier of the column
	Name string
	// Type is the declared data type of the column
	Type DataType
	// Required marks absence of a value at this position as an error
	// instead of producing a null
	Required bool
	// Validate is an optional semantic constraint applied after successful
	// type interpretation. A non-nil error aborts the row with a
	// ValidationError. Nil for all built-in schema constructors.
	Validate func(DataValue) error
}

// Schema is an immutable ordered sequence of columns. Build it once per
// invocation with NewSchema, DefaultSchema or SchemaFromHeader.
type Schema struct {
	columns []Column
}

// NewSchema creates a schema from the given columns. The slice is copied so
// later mutation of the argument cannot change the schema.
func NewSchema(columns []Column) *Schema {
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Schema{columns: cols}
}

// DefaultSchema synthesizes a schema of n generic columns, used when the
// source has no header row. Every column is Text, not required, and named
// by its zero-based position ("#0", "#1", ...).
func DefaultSchema(n int) *Schema {
	columns := make([]Column, 0, n)
	for i := range n {
		columns = append(columns, Column{
			Name: fmt.Sprintf("#%d", i),
			Type: TypeText,
		})
	}
	return &Schema{columns: columns}
}

// SchemaFromHeader derives a schema from a header row: one Text, not
// required column per cell, named by the cell's trimmed text with
// surrounding double quotes stripped. Type and required refinement is left
// to the caller via NewSchema.
func SchemaFromHeader(header RawRow) *Schema {
	columns := make([]Column, 0, len(header))
	for _, cell := range header {
		name := ""
		if cell != nil {
			name = strings.Trim(strings.TrimSpace(cellText(cell)), `"`)
		}
		columns = append(columns, Column{
			Name: name,
			Type: TypeText,
		})
	}
	return &Schema{columns: columns}
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the column declarations.
func (s *Schema) Columns() []Column {
	cols := make([]Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// ColumnNames returns the column names in order, for emitting a header line.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// RawRow is one untyped row as delivered by a source: an ordered sequence of
// cell entries where a nil entry means the cell is absent. Rows may be
// shorter than the schema; positions beyond the row are treated as absent.
type RawRow []any

// cellText renders a present raw cell to its text representation.
func cellText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// ParseRow validates one raw row against the schema and assembles a record,
// or reports the first failure as a row/column-addressed error. rowIndex is
// the zero-based index of the row within the data portion of the source and
// is used only for error attribution.
//
// The function is pure and deterministic. Failure is all-or-nothing per
// row: no partial record is ever returned.
func (s *Schema) ParseRow(rowIndex int, row RawRow) (Record, error) {
	record := make(Record, 0, len(s.columns))

	for i, col := range s.columns {
		var raw any
		if i < len(row) {
			raw = row[i]
		}

		if raw == nil {
			if col.Required {
				return nil, &MissingColumnError{Row: rowIndex, Col: i, Name: col.Name}
			}
			record = append(record, NullValue())
			continue
		}

		text := cellText(raw)
		value, ok := interpretValue(text, col.Type)
		if !ok {
			return nil, &TypeMismatchError{
				Row:      rowIndex,
				Col:      i,
				Name:     col.Name,
				Expected: col.Type.String(),
				Actual:   text,
			}
		}

		if col.Validate != nil {
			if err := col.Validate(value); err != nil {
				return nil, &ValidationError{Row: rowIndex, Col: i, Message: err.Error()}
			}
		}

		record = append(record, value)
	}

	return record, nil
}
