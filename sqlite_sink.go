package gridcsv

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// SQLite driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

// sqlType maps a declared column type to its SQLite column type. Booleans
// are stored as INTEGER, following SQLite convention.
func (t DataType) sqlType() string {
	switch t {
	case TypeInteger, TypeBoolean:
		return "INTEGER"
	case TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// sanitizeIdentifier rewrites a name into a safe SQL identifier: spaces,
// dashes and dots become underscores, anything else non-alphanumeric is
// dropped, and a leading digit gets a prefix.
func sanitizeIdentifier(name, fallback string) string {
	result := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	result = strings.ReplaceAll(result, "-", "_")
	result = strings.ReplaceAll(result, ".", "_")

	var sanitized strings.Builder
	for _, r := range result {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			sanitized.WriteRune(r)
		}
	}

	final := sanitized.String()
	if final == "" {
		return fallback
	}
	if final[0] >= '0' && final[0] <= '9' {
		final = fallback + "_" + final
	}
	return final
}

// SQLiteSink writes records into a SQLite table. The table is created from
// the schema with column types mapped via sqlType; schema column names are
// sanitized and deduplicated, since SQLite requires unique column names
// while schemas do not.
//
// Records arrive as rendered text fields. Empty fields are stored as NULL,
// which means an empty text value and a null are indistinguishable once
// written; callers that need the distinction should use a delimited sink.
type SQLiteSink struct {
	db        *sql.DB
	tx        *sql.Tx
	stmt      *sql.Stmt
	tableName string
	insertSQL string
	columns   int
}

// NewSQLiteSink opens (or creates) the SQLite database at path, creates the
// table with one column per schema column, and prepares the insert
// statement. Close must be called to commit and release the database.
func NewSQLiteSink(ctx context.Context, path, tableName string, schema *Schema) (*SQLiteSink, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	table := sanitizeIdentifier(tableName, "records")
	columns := schema.Columns()
	columnNames := make([]string, len(columns))
	seen := make(map[string]int, len(columns))
	for i, col := range columns {
		name := sanitizeIdentifier(col.Name, fmt.Sprintf("column_%d", i))
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		columnNames[i] = name
	}

	defs := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%q %s", columnNames[i], col.Type.sqlType())
		placeholders[i] = "?"
	}

	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", table, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	insertSQL := fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		_ = tx.Rollback()
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}

	return &SQLiteSink{
		db:        db,
		tx:        tx,
		stmt:      stmt,
		tableName: table,
		insertSQL: insertSQL,
		columns:   len(columns),
	}, nil
}

// TableName returns the sanitized table name records are written to.
func (s *SQLiteSink) TableName() string {
	return s.tableName
}

// Write implements Sink. Field counts must match the schema the sink was
// created with.
func (s *SQLiteSink) Write(fields []string) error {
	if len(fields) != s.columns {
		return fmt.Errorf("record has %d fields, table %s has %d columns", len(fields), s.tableName, s.columns)
	}

	args := make([]any, len(fields))
	for i, field := range fields {
		if field == "" {
			args[i] = nil
			continue
		}
		args[i] = field
	}

	if _, err := s.stmt.Exec(args...); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Flush implements Sink by committing the current transaction and starting
// a new one for subsequent writes.
func (s *SQLiteSink) Flush() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	s.tx = tx

	stmt, err := tx.Prepare(s.insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	s.stmt = stmt
	return nil
}

// Close commits outstanding writes and closes the database.
func (s *SQLiteSink) Close() error {
	err := s.tx.Commit()
	if closeErr := s.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
