package gridcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputFormat represents the delimited output format.
type OutputFormat int

const (
	// OutputFormatCSV represents CSV output format
	OutputFormatCSV OutputFormat = iota
	// OutputFormatTSV represents TSV output format
	OutputFormatTSV
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	switch f {
	case OutputFormatTSV:
		return "tsv"
	default:
		return "csv"
	}
}

// Extension returns the file extension for the format
func (f OutputFormat) Extension() string {
	switch f {
	case OutputFormatTSV:
		return extTSV
	default:
		return extCSV
	}
}

// delimiter returns the field delimiter for the format
func (f OutputFormat) delimiter() rune {
	switch f {
	case OutputFormatTSV:
		return tsvDelimiter
	default:
		return csvDelimiter
	}
}

// ParseOutputFormat parses an output format name ("csv" or "tsv").
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "csv":
		return OutputFormatCSV, nil
	case "tsv":
		return OutputFormatTSV, nil
	default:
		return OutputFormatCSV, fmt.Errorf("%w: %s", ErrUnknownOutputFormat, s)
	}
}

// Sink accepts one ordered sequence of text fields at a time, in row order,
// and performs its own escaping and line termination. The conversion loop
// never formats delimiters itself.
type Sink interface {
	// Write emits one record
	Write(fields []string) error
	// Flush forces buffered records out to the destination
	Flush() error
}

// DelimitedSink writes records as CSV or TSV, optionally through a
// compression layer. Close must be called for file-backed or compressed
// sinks to flush the compression trailer.
type DelimitedSink struct {
	writer  *csv.Writer
	closers []func() error
}

// NewDelimitedSink creates a sink writing to w in the given format.
func NewDelimitedSink(w io.Writer, format OutputFormat) *DelimitedSink {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = format.delimiter()
	return &DelimitedSink{writer: csvWriter}
}

// NewDelimitedFileSink creates a sink writing to the file at path. The
// format is detected from the extension (.csv or .tsv), and a trailing
// compression extension (.gz, .xz, .zst) adds a compression layer.
func NewDelimitedFileSink(path string) (*DelimitedSink, error) {
	var format OutputFormat
	switch strings.ToLower(filepath.Ext(stripCompressionExtension(path))) {
	case extTSV:
		format = OutputFormatTSV
	case extCSV:
		format = OutputFormatCSV
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOutputFormat, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer, cleanup, err := newCompressionWriter(detectCompressionType(path), file)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = format.delimiter()
	return &DelimitedSink{
		writer:  csvWriter,
		closers: []func() error{cleanup, file.Close},
	}, nil
}

// Write implements Sink.
func (s *DelimitedSink) Write(fields []string) error {
	return s.writer.Write(fields)
}

// Flush implements Sink.
func (s *DelimitedSink) Flush() error {
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes the sink and releases the compression layer and file handle,
// in that order. Safe to call for writer-backed sinks as well.
func (s *DelimitedSink) Close() error {
	err := s.Flush()
	for _, closer := range s.closers {
		if closeErr := closer(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
