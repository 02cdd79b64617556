package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandevgo/tuskswarm/pkg/log"
)

const defaultSampleRows = 3

var ErrDatabaseNotFound = errors.New("database file not found")

// Database is the relational source answered by the SQL agent.
type Database struct {
	db         *sql.DB
	path       string
	sampleRows int
}

func Open(ctx context.Context, path string, readOnly bool) (*Database, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(path, readOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("path", path).Bool("read_only", readOnly).Msg("opened database")
	return &Database{db: db, path: path, sampleRows: defaultSampleRows}, nil
}

func dsn(path string, readOnly bool) string {
	if !readOnly {
		return path
	}
	u := url.URL{Scheme: "file", Opaque: path}
	q := url.Values{}
	q.Set("mode", "ro")
	u.RawQuery = q.Encode()
	return u.String()
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableInfo describes every table: its CREATE statement followed by a few sample rows.
func (d *Database) TableInfo(ctx context.Context) (string, error) {
	tables, err := d.Tables(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		info, err := d.describeTable(ctx, t)
		if err != nil {
			return "", err
		}
		parts = append(parts, info)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (d *Database) describeTable(ctx context.Context, table string) (string, error) {
	var ddl string
	err := d.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&ddl)
	if err != nil {
		return "", fmt.Errorf("failed to read schema of %s: %w", table, err)
	}

	sample, err := d.Execute(ctx, fmt.Sprintf(`SELECT * FROM %s LIMIT %d`, quoteIdent(table), d.sampleRows))
	if err != nil {
		return "", fmt.Errorf("failed to sample %s: %w", table, err)
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(ddl))
	sb.WriteString("\n\n/*\n")
	fmt.Fprintf(&sb, "%d rows from %s table:\n", d.sampleRows, table)
	sb.WriteString(sample.TSV())
	sb.WriteString("*/")
	return sb.String(), nil
}

func (d *Database) Execute(ctx context.Context, query string) (*Result, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	res := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return res, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
