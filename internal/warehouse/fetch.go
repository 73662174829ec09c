package warehouse

import (
	"context"
	"strconv"

	"github.com/kiosk404/echosql/internal/domain/errno"
)

// Row is one result row, keyed by output column name (a map has no
// column order; FetchResult.Columns keeps the declaration order);
// JSON-marshaling a []Row therefore round-trips cleanly through the v1
// data endpoint without a bespoke struct per query shape.
type Row map[string]interface{}

// FetchResult is the outcome of running a paginated SQL statement.
type FetchResult struct {
	Columns    []string
	Rows       []Row
	TotalCount int64 // -1 when the caller didn't request it
}

// Fetch runs sql (already wrapped by internal/paginate) against profile
// and scans every row into a FetchResult. totalCountRequested controls
// whether the last scanned column is pulled out as TotalCount rather than
// included in each Row.
func (p *Pool) Fetch(ctx context.Context, profile, querySQL string, totalCountRequested bool) (*FetchResult, error) {
	db, _, err := p.Get(ctx, profile)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, querySQL)
	if err != nil {
		class := errno.ClassifyDriverError(err)
		return nil, &errno.SQLValidationError{
			Class:          class,
			Message:        err.Error(),
			Position:       -1,
			RepairGuidance: RepairGuidanceFor(class),
			Cause:          err,
		}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &FetchResult{Columns: cols, TotalCount: -1}
	dataCols := cols
	countIdx := -1
	if totalCountRequested && len(cols) > 0 && cols[len(cols)-1] == "total_count" {
		countIdx = len(cols) - 1
		dataCols = cols[:countIdx]
		result.Columns = dataCols
	}

	buf := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range buf {
		ptrs[i] = &buf[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(dataCols))
		for i, name := range dataCols {
			row[name] = normalizeScanned(buf[i])
		}
		result.Rows = append(result.Rows, row)
		if countIdx >= 0 {
			if n, ok := toInt64(buf[countIdx]); ok {
				result.TotalCount = n
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// normalizeScanned converts driver-returned []byte (common for TEXT/VARCHAR
// columns under database/sql with no explicit scan type) into a string so
// JSON marshaling doesn't base64-encode it.
func normalizeScanned(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case []byte:
		parsed, err := strconv.ParseInt(string(n), 10, 64)
		return parsed, err == nil
	}
	return 0, false
}
