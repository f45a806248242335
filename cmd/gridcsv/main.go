// Command gridcsv converts a spreadsheet range or a tabular file into
// validated delimited text or a SQLite table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/nao1215/gridcsv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	sheetID            string
	readRange          string
	serviceAccountFile string
	inputPath          string
	outputPath         string
	outputFormat       string
	sqlitePath         string
	sqliteTable        string
	hasHeader          bool
	outputHeader       bool
	onError            string
	workers            int
	verbose            bool
	summary            bool
)

var rootCmd = &cobra.Command{
	Use:   "gridcsv",
	Short: "Convert a spreadsheet range or tabular file into validated CSV/TSV or SQLite.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var programLevel = new(slog.LevelVar)
		switch {
		case verbose:
			programLevel.Set(slog.LevelDebug)
		default:
			programLevel.Set(slog.LevelInfo)
		}
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel})
		logger := slog.New(handler)
		slog.SetDefault(logger)

		if (sheetID == "") == (inputPath == "") {
			return fmt.Errorf("exactly one of --sheet-id and --input is required")
		}

		policy, err := gridcsv.ParseErrorPolicy(onError)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		src, err := buildSource(ctx)
		if err != nil {
			return err
		}

		opts := gridcsv.NewConvertOptions().
			WithHeader(hasHeader).
			WithOutputHeader(outputHeader).
			WithErrorPolicy(policy).
			WithWorkers(workers).
			WithLogger(logger)

		var result *gridcsv.ConvertResult
		if sqlitePath != "" {
			result, err = convertToSQLite(ctx, src, opts)
		} else {
			result, err = convertToDelimited(ctx, src, opts)
		}
		if err != nil {
			return err
		}

		slog.Debug("conversion finished",
			"rows", result.Rows, "written", result.Written, "skipped", result.Skipped)
		if summary {
			printSummary(result)
		}
		return nil
	},
}

// buildSource picks the value source from the flags. s3:// input paths are
// downloaded to a temporary file first.
func buildSource(ctx context.Context) (gridcsv.Source, error) {
	if sheetID != "" {
		if serviceAccountFile == "" {
			return nil, fmt.Errorf("--service-account-file is required with --sheet-id")
		}
		return gridcsv.NewSheetsSource(sheetID, readRange, serviceAccountFile), nil
	}

	path := inputPath
	if strings.HasPrefix(path, "s3://") {
		downloaded, err := downloadFromS3(ctx, path)
		if err != nil {
			return nil, err
		}
		path = downloaded
	}
	return gridcsv.NewFileSource(path), nil
}

// downloadFromS3 fetches an s3://bucket/key object into the temp directory
// and returns the local path.
func downloadFromS3(ctx context.Context, s3Path string) (string, error) {
	parts := strings.Split(strings.TrimPrefix(s3Path, "s3://"), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid s3 path: %s", s3Path)
	}

	localPath := filepath.Join(os.TempDir(), parts[len(parts)-1])
	sess := session.Must(session.NewSession())
	downloader := s3manager.NewDownloader(sess)

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	n, err := downloader.DownloadWithContext(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(parts[0]),
		Key:    aws.String(strings.Join(parts[1:], "/")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to download file from S3: %w", err)
	}
	slog.Debug("file downloaded from S3", "path", s3Path, "bytes", n)
	return localPath, nil
}

// convertToDelimited writes CSV/TSV to --output, or stdout when unset.
func convertToDelimited(ctx context.Context, src gridcsv.Source, opts gridcsv.ConvertOptions) (*gridcsv.ConvertResult, error) {
	if outputPath == "" || outputPath == "-" {
		format, err := gridcsv.ParseOutputFormat(outputFormat)
		if err != nil {
			return nil, err
		}
		return gridcsv.Convert(ctx, src, gridcsv.NewDelimitedSink(os.Stdout, format), opts)
	}

	sink, err := gridcsv.NewDelimitedFileSink(outputPath)
	if err != nil {
		return nil, err
	}
	result, err := gridcsv.Convert(ctx, src, sink, opts)
	if closeErr := sink.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return result, err
}

// convertToSQLite writes records into a table of the --sqlite database.
// The sink needs the schema up front, so the matrix is fetched once and
// replayed through a matrix source.
func convertToSQLite(ctx context.Context, src gridcsv.Source, opts gridcsv.ConvertOptions) (*gridcsv.ConvertResult, error) {
	values, err := src.Values(ctx)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, gridcsv.ErrEmptyData
	}

	schema := opts.Schema
	if schema == nil {
		if opts.HasHeader {
			schema = gridcsv.SchemaFromHeader(values[0])
		} else {
			schema = gridcsv.DefaultSchema(len(values[0]))
		}
	}

	sink, err := gridcsv.NewSQLiteSink(ctx, sqlitePath, sqliteTable, schema)
	if err != nil {
		return nil, err
	}

	// Column names already define the table columns, never insert them as a row.
	opts = opts.WithSchema(schema).WithOutputHeader(false)
	result, err := gridcsv.Convert(ctx, gridcsv.NewMatrixSource(values), sink, opts)
	if closeErr := sink.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return result, err
}

// printSummary renders the run statistics as a table on stdout.
func printSummary(result *gridcsv.ConvertResult) {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.Header([]string{"Rows", "Written", "Skipped"})
	table.Append([]string{
		strconv.Itoa(result.Rows),
		strconv.Itoa(result.Written),
		strconv.Itoa(result.Skipped),
	})
	table.Render()
	fmt.Println(tableString.String())
}

func init() {
	rootCmd.Flags().StringVarP(&sheetID, "sheet-id", "s", "", "Google Sheets spreadsheet ID")
	rootCmd.Flags().StringVarP(&readRange, "range", "r", "Sheet1!A1:Z100", "A1 notation range to fetch")
	rootCmd.Flags().StringVar(&serviceAccountFile, "service-account-file", "", "Path to service account credentials JSON")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file path (csv/tsv/xlsx/parquet, local or s3://)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "csv", "Output format for stdout: csv or tsv")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Write records into this SQLite database instead of delimited text")
	rootCmd.Flags().StringVar(&sqliteTable, "table", "records", "SQLite table name used with --sqlite")
	rootCmd.Flags().BoolVar(&hasHeader, "has-header", false, "Treat the first row as a header row")
	rootCmd.Flags().BoolVar(&outputHeader, "output-header", false, "Emit column names as the first output record")
	rootCmd.Flags().StringVar(&onError, "on-error", "log", "Failed-row policy: fail, skip, or log")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 1, "Number of row-parsing goroutines")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().BoolVar(&summary, "summary", false, "Print a run summary table")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
