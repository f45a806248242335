package gridcsv

import "strconv"

// DataType represents the declared type of a schema column.
// The set is closed: adding a type means adding a constant and a branch
// in interpretValue, so the parser stays auditable.
type DataType int

const (
	// TypeText represents a free-form text column
	TypeText DataType = iota
	// TypeInteger represents a 64-bit signed decimal integer column
	TypeInteger
	// TypeFloat represents a 64-bit decimal floating-point column
	TypeFloat
	// TypeBoolean represents a boolean column ("true"/"false" literals)
	TypeBoolean
)

// String returns the type label used in error messages and diagnostics.
func (t DataType) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeBoolean:
		return "Boolean"
	default:
		return "Text"
	}
}

// valueKind discriminates the variants of DataValue
type valueKind int

const (
	kindNull valueKind = iota
	kindText
	kindInteger
	kindFloat
	kindBoolean
)

// DataValue represents one validated cell. It is a closed variant over
// text, integer, float, boolean and null, and is immutable once constructed.
type DataValue struct {
	kind    valueKind
	text    string
	integer int64
	float   float64
	boolean bool
}

// NullValue creates the null DataValue. A null renders to the empty string;
// note that re-parsing an empty string against a Text column yields
// TextValue(""), not null. That asymmetry is deliberate and pinned by tests.
func NullValue() DataValue {
	return DataValue{kind: kindNull}
}

// TextValue creates a text DataValue. The empty string is a valid text value.
func TextValue(s string) DataValue {
	return DataValue{kind: kindText, text: s}
}

// IntegerValue creates an integer DataValue.
func IntegerValue(i int64) DataValue {
	return DataValue{kind: kindInteger, integer: i}
}

// FloatValue creates a float DataValue.
func FloatValue(f float64) DataValue {
	return DataValue{kind: kindFloat, float: f}
}

// BooleanValue creates a boolean DataValue.
func BooleanValue(b bool) DataValue {
	return DataValue{kind: kindBoolean, boolean: b}
}

// IsNull reports whether the value is the null variant.
func (v DataValue) IsNull() bool {
	return v.kind == kindNull
}

// Equal reports whether two values are the same variant holding the same content.
func (v DataValue) Equal(other DataValue) bool {
	return v == other
}

// String renders the value to its text representation for output.
// This is the single place that decides how a typed value looks as text:
// text renders verbatim, integer and float render in their canonical
// decimal form, boolean renders as "true"/"false", null renders empty.
func (v DataValue) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindInteger:
		return strconv.FormatInt(v.integer, 10)
	case kindFloat:
		return strconv.FormatFloat(v.float, 'g', -1, 64)
	case kindBoolean:
		return strconv.FormatBool(v.boolean)
	default:
		return ""
	}
}

// interpretValue interprets the text representation of a present cell
// according to the declared column type. The boolean grammar accepts only
// the canonical literals "true" and "false".
func interpretValue(text string, dataType DataType) (DataValue, bool) {
	switch dataType {
	case TypeText:
		return TextValue(text), true
	case TypeInteger:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return DataValue{}, false
		}
		return IntegerValue(i), true
	case TypeFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return DataValue{}, false
		}
		return FloatValue(f), true
	case TypeBoolean:
		switch text {
		case "true":
			return BooleanValue(true), true
		case "false":
			return BooleanValue(false), true
		default:
			return DataValue{}, false
		}
	default:
		return DataValue{}, false
	}
}

// Record represents a fully validated row: one DataValue per schema column,
// in column order. A record is produced only by successful parsing and is
// never partially populated.
type Record []DataValue

// Strings renders every value of the record through DataValue.String,
// in column order. This is the form handed to sinks.
func (r Record) Strings() []string {
	fields := make([]string, len(r))
	for i, v := range r {
		fields[i] = v.String()
	}
	return fields
}

// equal compares two records value by value.
func (r Record) equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i, v := range r {
		if !v.Equal(other[i]) {
			return false
		}
	}
	return true
}
