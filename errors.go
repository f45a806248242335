package gridcsv

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by sources, sinks and the conversion loop.
var (
	// ErrEmptyData indicates that the source yielded no rows at all
	ErrEmptyData = errors.New("gridcsv: empty data source")

	// ErrUnsupportedFormat indicates an unsupported input file format
	ErrUnsupportedFormat = errors.New("gridcsv: unsupported file format")

	// ErrUnknownErrorPolicy indicates an unrecognized error policy name
	ErrUnknownErrorPolicy = errors.New("gridcsv: unknown error policy")

	// ErrUnknownOutputFormat indicates an unrecognized output format name
	ErrUnknownOutputFormat = errors.New("gridcsv: unknown output format")

	// ErrNilSchema indicates that a component requiring a schema got none
	ErrNilSchema = errors.New("gridcsv: schema must not be nil")
)

// MissingColumnError reports that a required column had no corresponding
// value in the row. Row is the zero-based index of the row within the data
// portion of the source; Col is the zero-based column index in the schema.
type MissingColumnError struct {
	Row  int
	Col  int
	Name string
}

// Error implements the error interface.
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("row %d: required '%s' (index: %d)", e.Row, e.Name, e.Col)
}

// TypeMismatchError reports that a present value's text representation could
// not be interpreted as the column's declared type. Expected is the type
// label ("Integer", "Float", "Boolean"); Actual is the offending raw text.
type TypeMismatchError struct {
	Row      int
	Col      int
	Name     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("row %d, col %d ('%s'): type does not match. expected: %s, actual: %s",
		e.Row, e.Col, e.Name, e.Expected, e.Actual)
}

// ValidationError reports a semantic constraint failure beyond type checking.
// It is produced only when a column carries a Validate hook; the primitive
// type set alone never triggers it.
type ValidationError struct {
	Row     int
	Col     int
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d, col %d: validation error: %s", e.Row, e.Col, e.Message)
}
