package gridcsv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchema(t *testing.T) {
	t.Parallel()

	schema := DefaultSchema(3)
	require.Equal(t, 3, schema.Len())
	assert.Equal(t, []string{"#0", "#1", "#2"}, schema.ColumnNames())

	for _, col := range schema.Columns() {
		assert.Equal(t, TypeText, col.Type)
		assert.False(t, col.Required)
	}
}

func TestSchemaFromHeader(t *testing.T) {
	t.Parallel()

	t.Run("Surrounding quotes are stripped", func(t *testing.T) {
		t.Parallel()

		schema := SchemaFromHeader(RawRow{"Name", `"Score"`})
		require.Equal(t, 2, schema.Len())
		assert.Equal(t, []string{"Name", "Score"}, schema.ColumnNames())

		for _, col := range schema.Columns() {
			assert.Equal(t, TypeText, col.Type)
			assert.False(t, col.Required)
		}
	})

	t.Run("Whitespace is trimmed", func(t *testing.T) {
		t.Parallel()

		schema := SchemaFromHeader(RawRow{"  name  "})
		assert.Equal(t, []string{"name"}, schema.ColumnNames())
	})

	t.Run("Absent header cell yields empty name", func(t *testing.T) {
		t.Parallel()

		schema := SchemaFromHeader(RawRow{"a", nil, "c"})
		assert.Equal(t, []string{"a", "", "c"}, schema.ColumnNames())
	})
}

func TestNewSchema_CopiesColumns(t *testing.T) {
	t.Parallel()

	columns := []Column{{Name: "a", Type: TypeText}}
	schema := NewSchema(columns)
	columns[0].Name = "mutated"

	assert.Equal(t, []string{"a"}, schema.ColumnNames())
}

func TestSchema_ParseRow(t *testing.T) {
	t.Parallel()

	personSchema := NewSchema([]Column{
		{Name: "name", Type: TypeText, Required: true},
		{Name: "age", Type: TypeInteger},
	})

	t.Run("Every column resolves", func(t *testing.T) {
		t.Parallel()

		record, err := personSchema.ParseRow(0, RawRow{"Ann", "34"})
		require.NoError(t, err)
		require.Len(t, record, personSchema.Len())
		assert.True(t, record.equal(Record{TextValue("Ann"), IntegerValue(34)}))
	})

	t.Run("Short row resolves optional trailing column to null", func(t *testing.T) {
		t.Parallel()

		record, err := personSchema.ParseRow(0, RawRow{"Ann"})
		require.NoError(t, err)
		assert.True(t, record.equal(Record{TextValue("Ann"), NullValue()}))
	})

	t.Run("Absent required column fails with MissingColumn", func(t *testing.T) {
		t.Parallel()

		record, err := personSchema.ParseRow(7, RawRow{nil, "34"})
		require.Error(t, err)
		assert.Nil(t, record)

		var missingErr *MissingColumnError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, 7, missingErr.Row)
		assert.Equal(t, 0, missingErr.Col)
		assert.Equal(t, "name", missingErr.Name)
	})

	t.Run("Short row with required trailing column fails with MissingColumn", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema([]Column{
			{Name: "id", Type: TypeText},
			{Name: "score", Type: TypeInteger, Required: true},
		})

		_, err := schema.ParseRow(2, RawRow{"x"})
		var missingErr *MissingColumnError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, 1, missingErr.Col)
		assert.Equal(t, "score", missingErr.Name)
	})

	t.Run("Unparsable integer fails with TypeMismatch", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema([]Column{{Name: "score", Type: TypeInteger}})

		record, err := schema.ParseRow(3, RawRow{"abc"})
		require.Error(t, err)
		assert.Nil(t, record)

		var mismatchErr *TypeMismatchError
		require.ErrorAs(t, err, &mismatchErr)
		assert.Equal(t, 3, mismatchErr.Row)
		assert.Equal(t, 0, mismatchErr.Col)
		assert.Equal(t, "score", mismatchErr.Name)
		assert.Equal(t, "Integer", mismatchErr.Expected)
		assert.Equal(t, "abc", mismatchErr.Actual)
	})

	t.Run("Expected label follows the declared type", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			dataType DataType
			expected string
		}{
			{TypeFloat, "Float"},
			{TypeBoolean, "Boolean"},
		}
		for _, tt := range tests {
			schema := NewSchema([]Column{{Name: "v", Type: tt.dataType}})
			_, err := schema.ParseRow(0, RawRow{"not-a-value"})

			var mismatchErr *TypeMismatchError
			require.ErrorAs(t, err, &mismatchErr)
			assert.Equal(t, tt.expected, mismatchErr.Expected)
			assert.Equal(t, "not-a-value", mismatchErr.Actual)
		}
	})

	t.Run("Absent optional column never reports TypeMismatch", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema([]Column{{Name: "score", Type: TypeInteger}})

		record, err := schema.ParseRow(0, RawRow{nil})
		require.NoError(t, err)
		assert.True(t, record.equal(Record{NullValue()}))
	})

	t.Run("Present empty text resolves to empty text, not null", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema([]Column{{Name: "note", Type: TypeText}})

		record, err := schema.ParseRow(0, RawRow{""})
		require.NoError(t, err)
		assert.True(t, record.equal(Record{TextValue("")}))
	})

	t.Run("Row longer than schema ignores extra cells", func(t *testing.T) {
		t.Parallel()

		record, err := personSchema.ParseRow(0, RawRow{"Ann", "34", "extra"})
		require.NoError(t, err)
		assert.Len(t, record, personSchema.Len())
	})

	t.Run("Validate hook failure surfaces as ValidationError", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema([]Column{{
			Name: "age",
			Type: TypeInteger,
			Validate: func(v DataValue) error {
				return errors.New("age must be non-negative")
			},
		}})

		_, err := schema.ParseRow(5, RawRow{"-1"})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 5, validationErr.Row)
		assert.Equal(t, 0, validationErr.Col)
		assert.Equal(t, "age must be non-negative", validationErr.Message)
	})

	t.Run("Deterministic for identical inputs", func(t *testing.T) {
		t.Parallel()

		first, err1 := personSchema.ParseRow(1, RawRow{"Bob", "42"})
		second, err2 := personSchema.ParseRow(1, RawRow{"Bob", "42"})
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.True(t, first.equal(second))
	})
}

func TestCellText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cell     any
		expected string
	}{
		{name: "String passes through", cell: "34", expected: "34"},
		{name: "Integer formats decimal", cell: 34, expected: "34"},
		{name: "Boolean formats literal", cell: true, expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, cellText(tt.cell))
		})
	}
}
