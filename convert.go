package gridcsv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrorPolicy selects how the conversion loop reacts to a row that fails to
// parse. The parser itself never recovers; the policy is evaluated once per
// failed row by the loop.
type ErrorPolicy int

const (
	// PolicyLog logs the error through the configured logger and drops the
	// row from output (default, matching the command line tool)
	PolicyLog ErrorPolicy = iota
	// PolicyFail stops the whole run and surfaces the error
	PolicyFail
	// PolicySkip drops the row silently, with no record and no log line
	PolicySkip
)

// String returns the policy name used on the command line.
func (p ErrorPolicy) String() string {
	switch p {
	case PolicyFail:
		return "fail"
	case PolicySkip:
		return "skip"
	default:
		return "log"
	}
}

// ParseErrorPolicy parses a policy name ("fail", "skip" or "log").
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(s) {
	case "fail":
		return PolicyFail, nil
	case "skip":
		return PolicySkip, nil
	case "log":
		return PolicyLog, nil
	default:
		return PolicyLog, fmt.Errorf("%w: %s", ErrUnknownErrorPolicy, s)
	}
}

// ConvertOptions configures one conversion run.
//
// Example:
//
//	opts := NewConvertOptions().
//		WithHeader(true).
//		WithOutputHeader(true).
//		WithErrorPolicy(PolicyFail)
//
//	result, err := Convert(ctx, source, sink, opts)
type ConvertOptions struct {
	// HasHeader treats the first source row as a header row: the schema is
	// derived from it and it is excluded from the data portion
	HasHeader bool
	// OutputHeader emits the schema's column names as the first sink record
	OutputHeader bool
	// Policy selects the reaction to rows that fail to parse
	Policy ErrorPolicy
	// Schema overrides schema derivation with an explicit schema, enabling
	// typed and required columns. HasHeader still controls whether the
	// first row is consumed as a header.
	Schema *Schema
	// Workers is the number of goroutines parsing rows. Values above one
	// parse rows concurrently; output order and row attribution are
	// identical to the sequential run.
	Workers int
	// Logger receives PolicyLog diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewConvertOptions creates default conversion options: no header row, no
// header output, PolicyLog, sequential parsing.
func NewConvertOptions() ConvertOptions {
	return ConvertOptions{
		Policy:  PolicyLog,
		Workers: 1,
	}
}

// WithHeader sets whether the first source row is a header row.
func (o ConvertOptions) WithHeader(hasHeader bool) ConvertOptions {
	o.HasHeader = hasHeader
	return o
}

// WithOutputHeader sets whether the column names are emitted as the first
// output record.
func (o ConvertOptions) WithOutputHeader(outputHeader bool) ConvertOptions {
	o.OutputHeader = outputHeader
	return o
}

// WithErrorPolicy sets the error policy.
func (o ConvertOptions) WithErrorPolicy(policy ErrorPolicy) ConvertOptions {
	o.Policy = policy
	return o
}

// WithSchema sets an explicit schema, bypassing derivation.
func (o ConvertOptions) WithSchema(schema *Schema) ConvertOptions {
	o.Schema = schema
	return o
}

// WithWorkers sets the number of row-parsing goroutines.
func (o ConvertOptions) WithWorkers(workers int) ConvertOptions {
	o.Workers = workers
	return o
}

// WithLogger sets the logger used by PolicyLog.
func (o ConvertOptions) WithLogger(logger *slog.Logger) ConvertOptions {
	o.Logger = logger
	return o
}

// ConvertResult reports what one conversion run did.
type ConvertResult struct {
	// Rows is the number of data rows the source yielded (header excluded)
	Rows int
	// Written is the number of records written to the sink
	Written int
	// Skipped is the number of rows dropped under PolicySkip or PolicyLog
	Skipped int
	// RowErrors holds the parse error of every dropped row, in row order.
	// Empty after a PolicyFail abort and after clean runs.
	RowErrors []error
}

// Convert drives one batch run: fetch the matrix from the source, derive or
// adopt a schema, parse every data row, and write accepted records to the
// sink in row order. The sink is flushed before returning, also on the
// PolicyFail path so that already-written records are not lost.
func Convert(ctx context.Context, src Source, sink Sink, opts ConvertOptions) (*ConvertResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	values, err := src.Values(ctx)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrEmptyData
	}

	schema := opts.Schema
	rows := values
	if opts.HasHeader {
		if schema == nil {
			schema = SchemaFromHeader(values[0])
		}
		rows = values[1:]
	} else if schema == nil {
		schema = DefaultSchema(len(values[0]))
	}

	if opts.OutputHeader {
		if err := sink.Write(schema.ColumnNames()); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	records, err := parseRows(ctx, schema, rows, opts.Workers)
	if err != nil {
		return nil, err
	}

	result := &ConvertResult{Rows: len(rows)}
	for _, parsed := range records {
		if parsed.err != nil {
			switch opts.Policy {
			case PolicyFail:
				if flushErr := sink.Flush(); flushErr != nil {
					return nil, flushErr
				}
				return nil, parsed.err
			case PolicyLog:
				logger.Error("row rejected", "error", parsed.err)
			case PolicySkip:
				// Silent by contract: no record, no log line.
			}
			result.Skipped++
			result.RowErrors = append(result.RowErrors, parsed.err)
			continue
		}

		if err := sink.Write(parsed.record.Strings()); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
		result.Written++
	}

	if err := sink.Flush(); err != nil {
		return nil, err
	}
	return result, nil
}

// parsedRow holds one row's outcome; the row index is implied by its
// position in the result slice.
type parsedRow struct {
	record Record
	err    error
}

// parseRows parses every data row. Each row is independent, so with more
// than one worker the rows are parsed concurrently and collected into an
// index-addressed slice, preserving order and attribution.
func parseRows(ctx context.Context, schema *Schema, rows []RawRow, workers int) ([]parsedRow, error) {
	results := make([]parsedRow, len(rows))

	if workers <= 1 {
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			record, err := schema.ParseRow(i, row)
			results[i] = parsedRow{record: record, err: err}
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			record, err := schema.ParseRow(i, row)
			results[i] = parsedRow{record: record, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
