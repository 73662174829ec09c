package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kiosk404/echosql/internal/dialect"
)

// Column is one live-introspected column.
type Column struct {
	Name     string
	DataType string
}

// Table is one live-introspected table: its fully-qualified name (schema-
// qualified where the engine has schemas) plus its columns in ordinal
// position.
type Table struct {
	FQN     string
	Columns []Column
}

// informationSchemaQuery holds the introspection query for dialects that
// expose a standard information_schema (everything but SQLite).
const informationSchemaQuery = `
SELECT table_schema, table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema NOT IN ('information_schema', 'pg_catalog', 'system')
ORDER BY table_schema, table_name, ordinal_position`

// Introspect enumerates every table and column visible through db under
// d's dialect conventions. tableFilter, when non-empty, restricts the
// result to those fully-qualified names (filtered_schema); nil/empty means
// every table (full_schema).
func Introspect(ctx context.Context, db *sql.DB, d dialect.Dialect, tableFilter map[string]bool) ([]Table, error) {
	switch d {
	case dialect.SQLite:
		return introspectSQLite(ctx, db, tableFilter)
	default:
		return introspectInformationSchema(ctx, db, tableFilter)
	}
}

func introspectInformationSchema(ctx context.Context, db *sql.DB, tableFilter map[string]bool) ([]Table, error) {
	rows, err := db.QueryContext(ctx, informationSchemaQuery)
	if err != nil {
		return nil, fmt.Errorf("introspect information_schema: %w", err)
	}
	defer rows.Close()

	byFQN := make(map[string]*Table)
	var order []string
	for rows.Next() {
		var tableSchema, tableName, columnName, dataType string
		if err := rows.Scan(&tableSchema, &tableName, &columnName, &dataType); err != nil {
			return nil, fmt.Errorf("scan information_schema row: %w", err)
		}
		fqn := tableSchema + "." + tableName
		if tableFilter != nil && len(tableFilter) > 0 && !tableFilter[fqn] && !tableFilter[tableName] {
			continue
		}
		t, ok := byFQN[fqn]
		if !ok {
			t = &Table{FQN: fqn}
			byFQN[fqn] = t
			order = append(order, fqn)
		}
		t.Columns = append(t.Columns, Column{Name: columnName, DataType: dataType})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate information_schema rows: %w", err)
	}

	out := make([]Table, 0, len(order))
	for _, fqn := range order {
		out = append(out, *byFQN[fqn])
	}
	return out, nil
}

// introspectSQLite has no information_schema; it walks sqlite_master for
// table names, then PRAGMA table_info for columns.
func introspectSQLite(ctx context.Context, db *sql.DB, tableFilter map[string]bool) ([]Table, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("introspect sqlite_master: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sqlite_master row: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate sqlite_master rows: %w", err)
	}
	rows.Close()

	out := make([]Table, 0, len(names))
	for _, name := range names {
		if tableFilter != nil && len(tableFilter) > 0 && !tableFilter[name] {
			continue
		}
		// PRAGMA does not accept bound parameters; name comes only from
		// sqlite_master, never from user input.
		colRows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLiteIdent(name)))
		if err != nil {
			return nil, fmt.Errorf("introspect table_info(%s): %w", name, err)
		}
		t := Table{FQN: name}
		for colRows.Next() {
			var cid int
			var colName, colType string
			var notNull int
			var dflt sql.NullString
			var pk int
			if err := colRows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
				colRows.Close()
				return nil, fmt.Errorf("scan table_info(%s) row: %w", name, err)
			}
			t.Columns = append(t.Columns, Column{Name: colName, DataType: colType})
		}
		colRows.Close()
		out = append(out, t)
	}
	return out, nil
}

func quoteSQLiteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
