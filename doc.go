// Package gridcsv converts a rectangular grid of loosely-typed cell values
// into a sequence of strongly-typed, validated records, and serializes them
// as delimited text or into a SQLite table.
//
// The heart of the package is the schema-driven row parser: a Schema maps an
// untyped value matrix onto declared columns, enforcing per-column types and
// required-ness and reporting precise row/column-addressed errors. The
// caller chooses how a failed row is handled: abort the run, skip the row
// silently, or log and continue.
//
// # Features
//
//   - Closed value model over text, integer, float, boolean and null
//   - Pure, deterministic per-row parsing with all-or-nothing semantics
//   - Schema derivation from a header row or synthesized generic columns
//   - Sources: Google Sheets ranges, CSV/TSV/XLSX/Parquet files (with
//     gzip, bzip2, xz and zstandard decompression), in-memory matrices
//   - Sinks: CSV/TSV writers (optionally compressed), SQLite tables
//   - Optional concurrent row parsing with identical output ordering
//
// # Basic Usage
//
// Parse rows against a schema directly:
//
//	schema := gridcsv.NewSchema([]gridcsv.Column{
//	    {Name: "name", Type: gridcsv.TypeText, Required: true},
//	    {Name: "age", Type: gridcsv.TypeInteger},
//	})
//
//	record, err := schema.ParseRow(0, gridcsv.RawRow{"Ann", "34"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(record.Strings()) // ["Ann" "34"]
//
// Or drive a whole conversion from a source to a sink:
//
//	src := gridcsv.NewSheetsSource(sheetID, "Sheet1!A1:Z100", "sa.json")
//	sink := gridcsv.NewDelimitedSink(os.Stdout, gridcsv.OutputFormatCSV)
//
//	opts := gridcsv.NewConvertOptions().
//	    WithHeader(true).
//	    WithOutputHeader(true).
//	    WithErrorPolicy(gridcsv.PolicyFail)
//
//	result, err := gridcsv.Convert(ctx, src, sink, opts)
//
// # Error Model
//
// Parse failures are structured values, not formatted strings:
// MissingColumnError, TypeMismatchError and ValidationError all carry the
// zero-based row and column indexes (and column name where applicable), so
// callers can inspect fields with errors.As instead of re-parsing messages.
package gridcsv
