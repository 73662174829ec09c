// Package paginate wraps an arbitrary SQL string so its result is sorted
// and paginated, without re-executing the original statement twice in
// dialects where a CTE is materialized. This is six lines of SQL string
// construction, not a templating problem, so it builds the envelope with
// plain stdlib string formatting rather than the Jinja-based prompt
// assembler.
package paginate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kiosk404/echosql/internal/dialect"
	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Params are the pagination parameters Build applied, echoed back so the
// caller can report them alongside total_count without re-deriving
// defaults.
type Params struct {
	Limit  int
	Offset int
}

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// normalize clamps limit to (0, maxLimit], defaulting to defaultLimit when
// unset, and floors offset at 0.
func normalize(limit, offset int) Params {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// trailingClause matches the start of an ORDER BY or FETCH FIRST clause.
// stripTrailingEnvelope cuts at the first match that lies outside every
// parenthesis, so ORDER BY/FETCH FIRST nested inside a CTE, subquery or
// window specification is left in place and only the top-level clause
// (with everything after it) is stripped.
var trailingClause = regexp.MustCompile(`(?i)\s+(ORDER\s+BY|FETCH\s+FIRST)\s+`)
var trailingLimitOffset = regexp.MustCompile(`(?is)\s+LIMIT\s+\d+(\s+OFFSET\s+\d+)?\s*$`)

// stripTrailingEnvelope removes a trailing ORDER BY/LIMIT/OFFSET/FETCH
// FIRST clause from the end of sql, if one is present.
func stripTrailingEnvelope(sql string) string {
	s := strings.TrimRight(sql, " \t\n\r;")
	s = trailingLimitOffset.ReplaceAllString(s, "")
	for _, m := range trailingClause.FindAllStringIndex(s, -1) {
		if strings.Count(s[:m[0]], "(") == strings.Count(s[:m[0]], ")") {
			s = s[:m[0]]
			break
		}
	}
	return strings.TrimSpace(s)
}

// Build wraps sql u with a pagination/sort envelope. sortBy, when
// non-empty, must be a simple identifier matching one of cols
// (case-insensitive) — validated before any SQL is constructed. limit and
// offset are inlined directly: both are server-normalized ints by the
// time they reach here, never user-supplied SQL text, so there is nothing
// a placeholder buys over fmt.Sprintf.
func Build(u string, sortBy string, sortOrder SortOrder, includeTotalCount bool, d dialect.Dialect, cols []entity.Column, limit, offset int) (string, Params, error) {
	params := normalize(limit, offset)

	if sortBy != "" {
		if !isSimpleIdentifier(sortBy) {
			return "", Params{}, fmt.Errorf("%w: %q is not a simple identifier", errno.ErrInvalidSortColumn, sortBy)
		}
		if !columnDeclared(sortBy, cols) {
			return "", Params{}, fmt.Errorf("%w: %q", errno.ErrInvalidSortColumn, sortBy)
		}
	}

	inner := stripTrailingEnvelope(u)

	var sb strings.Builder
	sb.WriteString("WITH __paginated AS (\n")
	sb.WriteString(inner)
	sb.WriteString("\n)\n")
	sb.WriteString("SELECT __paginated.*")

	if includeTotalCount {
		if d == dialect.Trino {
			// The distributed-federation engine may inline CTEs: use a
			// scalar subquery to avoid double execution, and quote the
			// identifier since Trino lowercases unquoted names.
			sb.Reset()
			sb.WriteString("SELECT \"t\".*, (SELECT COUNT(*) FROM (\n")
			sb.WriteString(inner)
			sb.WriteString("\n) \"c\") AS \"total_count\" FROM (\n")
			sb.WriteString(inner)
			sb.WriteString("\n) \"t\"")
		} else {
			sb.WriteString(", COUNT(*) OVER () AS total_count FROM __paginated")
		}
	} else {
		sb.WriteString(" FROM __paginated")
	}

	effectiveSortBy := sortBy
	if effectiveSortBy == "" && d == dialect.Trino {
		// Make pagination deterministic even with no requested sort.
		sb.WriteString(" ORDER BY 1 ASC")
	} else if effectiveSortBy != "" {
		order := Asc
		if sortOrder == Desc {
			order = Desc
		}
		col := sortBy
		if d == dialect.Trino {
			col = "\"" + sortBy + "\""
		}
		sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", col, strings.ToUpper(string(order))))
	}

	sb.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", params.Limit, params.Offset))

	return sb.String(), params, nil
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

func columnDeclared(name string, cols []entity.Column) bool {
	for _, c := range cols {
		if strings.EqualFold(c.ColumnName, name) {
			return true
		}
	}
	return false
}
