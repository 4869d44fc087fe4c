// SPDX-License-Identifier: MIT

// Package loader reads the delimited input files of a run (sample metadata,
// the taxonomy artifact and wide count tables) through an in-process DuckDB
// connection and its read_csv table function.
//
// All columns are read as VARCHAR; numeric parsing happens here so that
// malformed cells are reported with their coordinates.
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

var (
	// ErrMissingColumn indicates that an expected header is absent.
	ErrMissingColumn = errors.New("loader: missing column")

	// ErrBadValue indicates a count cell that is not a finite number.
	ErrBadValue = errors.New("loader: malformed value")
)

// Taxonomy artifact headers (QIIME 2 export layout).
const (
	TaxonomyIDColumn      = "Feature ID"
	TaxonomyLineageColumn = "Taxon"
)

// Loader owns an in-memory DuckDB connection.
type Loader struct {
	db *sql.DB
}

// Open starts an in-memory DuckDB instance.
func Open() (*Loader, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("loader: open duckdb: %w", err)
	}

	return &Loader{db: db}, nil
}

// Close releases the DuckDB connection.
func (l *Loader) Close() error { return l.db.Close() }

// CSVOptions tune read_csv.
type CSVOptions struct {
	Delim string // field delimiter, default tab
	Skip  int    // leading lines to skip before the header
}

func (o CSVOptions) source(path string) string {
	delim := o.Delim
	if delim == "" {
		delim = "\t"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "read_csv(%s, delim=%s, header=true, all_varchar=true, quote='\"'", sqlQuote(path), sqlQuote(delim))
	if o.Skip > 0 {
		fmt.Fprintf(&sb, ", skip=%d", o.Skip)
	}
	sb.WriteString(")")

	return sb.String()
}

// query runs SELECT <cols> FROM read_csv(...) and returns the header and
// every row with NULL cells mapped to "".
func (l *Loader) query(ctx context.Context, path string, opts CSVOptions, cols []string) ([]string, [][]string, error) {
	sel := "*"
	if len(cols) > 0 {
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = identQuote(c)
		}
		sel = strings.Join(quoted, ", ")
	}
	q := fmt.Sprintf("SELECT %s FROM %s", sel, opts.source(path))

	rows, err := l.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("loader: query %s: %w", path, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("loader: columns %s: %w", path, err)
	}
	var out [][]string
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return nil, nil, fmt.Errorf("loader: scan %s: %w", path, err)
		}
		rec := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	return header, out, nil
}

// sqlQuote renders s as a SQL string literal.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// identQuote renders s as a quoted SQL identifier.
func identQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func missingColumn(path, col string, err error) error {
	if err != nil && strings.Contains(err.Error(), "not found") {
		return fmt.Errorf("loader: %s: %q: %w", path, col, ErrMissingColumn)
	}

	return err
}
