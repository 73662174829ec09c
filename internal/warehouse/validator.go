package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiosk404/echosql/internal/dialect"
	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/internal/sqlmeta"
	"github.com/kiosk404/echosql/pkg/logger"
)

// ExplainResult is the outcome of submitting sql for plan generation
// without materializing results.
type ExplainResult struct {
	Valid   bool
	Plan    string
	Error   *errno.SQLValidationError
	// ParserWarning is set when the parser pre-check fails; it never
	// overrides the warehouse's authoritative judgment.
	ParserWarning string
}

// explainPrefix varies by dialect: Postgres/MySQL accept EXPLAIN, SQLite
// uses EXPLAIN QUERY PLAN, ClickHouse expects EXPLAIN PLAN.
var explainPrefix = map[dialect.Dialect]string{
	dialect.Postgres:   "EXPLAIN ",
	dialect.MySQL:       "EXPLAIN ",
	dialect.SQLite:      "EXPLAIN QUERY PLAN ",
	dialect.ClickHouse:  "EXPLAIN PLAN ",
}

// Validator runs explain_analyze against the configured warehouse pool.
type Validator struct {
	pool *Pool
}

func NewValidator(pool *Pool) *Validator {
	return &Validator{pool: pool}
}

// Explain parses sql with the generic (dialect-independent) parser first to catch basic
// syntax errors fast (a parser failure becomes a non-blocking warning,
// never a substitute for the warehouse's own judgment), then submits
// EXPLAIN to the warehouse and classifies any driver error.
func (v *Validator) Explain(ctx context.Context, profile, sql string) (*ExplainResult, error) {
	result := &ExplainResult{}

	if _, err := sqlmeta.ExtractOutputColumns(sql); err != nil {
		result.ParserWarning = err.Error()
	}

	db, d, err := v.pool.Get(ctx, profile)
	if err != nil {
		if err == errno.ErrDriverUnavailable {
			result.Error = &errno.SQLValidationError{
				Class:   errno.ClassOther,
				Message: fmt.Sprintf("no warehouse driver available for dialect %s", d),
			}
			return result, nil
		}
		return nil, err
	}

	prefix, ok := explainPrefix[d]
	if !ok {
		prefix = "EXPLAIN "
	}

	rows, err := db.QueryContext(ctx, prefix+sql)
	if err != nil {
		class := errno.ClassifyDriverError(err)
		result.Error = &errno.SQLValidationError{
			Class:          class,
			Message:        err.Error(),
			Position:       -1,
			RepairGuidance: RepairGuidanceFor(class),
			Cause:          err,
		}
		return result, nil
	}
	defer rows.Close()

	var plan strings.Builder
	cols, err := rows.Columns()
	if err != nil {
		logger.WarnX("warehouse", "explain result has no columns: %v", err)
	}
	buf := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range buf {
		ptrs[i] = &buf[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			break
		}
		for _, v := range buf {
			fmt.Fprintf(&plan, "%v ", v)
		}
		plan.WriteByte('\n')
	}

	result.Valid = true
	result.Plan = plan.String()
	return result, nil
}

// RepairGuidanceFor returns pattern-registry guidance text for a known
// error class, empty for classes with no canned advice.
func RepairGuidanceFor(class errno.SQLErrorClass) string {
	switch class {
	case errno.ClassUnknownColumn:
		return "the referenced column does not exist in the target table; re-check the schema block for the correct column name"
	case errno.ClassSyntax:
		return "the SQL has a syntax error; re-check keyword placement and parenthesization"
	case errno.ClassTypeMismatch:
		return "an operand's type does not match the column's declared type; add an explicit cast"
	case errno.ClassTimeout:
		return "the query exceeded its time budget; consider narrowing the filter or adding a LIMIT"
	case errno.ClassPermission:
		return "the configured warehouse credentials lack access to this object"
	default:
		return ""
	}
}
