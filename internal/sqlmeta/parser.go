// Package sqlmeta validates that a QueryMetadata's declared columns match
// the SQL's actual output projection, and exposes the small parsing
// surface the SQL validator's fast syntax pre-check also uses.
package sqlmeta

import (
	"fmt"
	"strings"

	"github.com/viant/sqlparser"
	"github.com/viant/sqlparser/query"
)

// OutputColumn is one projected column extracted from a SELECT's column
// list, in source order.
type OutputColumn struct {
	// Name is the alias if AS is used, else the projection's expression
	// text (the bare identifier, or e.g. "1" for a literal). It is empty
	// only when the projection has no expression text at all.
	Name string

	// IsSimpleIdentifier is false for dotted/table-prefixed/function-call
	// projections, used to enforce the "column_name must be a simple
	// identifier" rule independently of alias presence.
	IsSimpleIdentifier bool
}

// ExtractOutputColumns parses sql (no dialect is taken) and returns its
// top-level SELECT output columns in projection order. Only the outermost
// query's column list is inspected; CTEs and subqueries are not descended
// into, matching the metadata validator's "output column" contract.
func ExtractOutputColumns(sql string) ([]OutputColumn, error) {
	parsed, err := sqlparser.ParseQuery(sql)
	if err != nil {
		return nil, fmt.Errorf("parse SQL: %w", err)
	}
	if parsed == nil || len(parsed.List) == 0 {
		return nil, fmt.Errorf("query has no output columns")
	}

	cols := make([]OutputColumn, 0, len(parsed.List))
	for _, item := range parsed.List {
		cols = append(cols, columnFromItem(item))
	}
	return cols, nil
}

func columnFromItem(item *query.Item) OutputColumn {
	if item == nil {
		return OutputColumn{}
	}
	if item.Alias != "" {
		return OutputColumn{Name: item.Alias, IsSimpleIdentifier: isSimpleIdentifier(item.Alias)}
	}
	raw := strings.TrimSpace(item.Expression)
	if strings.ContainsRune(raw, '.') {
		// table-prefixed bare column, e.g. "t.id" with no alias: the
		// metadata validator treats this as non-simple since column_name
		// must never be table-prefixed.
		return OutputColumn{Name: raw, IsSimpleIdentifier: false}
	}
	return OutputColumn{Name: raw, IsSimpleIdentifier: isSimpleIdentifier(raw)}
}

func isSimpleIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}
