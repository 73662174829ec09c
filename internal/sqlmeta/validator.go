package sqlmeta

import (
	"fmt"
	"strings"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

// Report is the structured outcome of validating a QueryMetadata against
// its SQL: blocking Errors and non-blocking Warnings.
type Report struct {
	Errors   []string
	Warnings []string
}

func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Validate enforces that q.Columns and q.SQL's output projection agree:
// every SQL output column must appear in metadata, every metadata column
// must equal a SQL output column (case-insensitive), and every declared
// column_name must be a simple identifier.
func Validate(q *entity.QueryMetadata) (*Report, error) {
	outputs, err := ExtractOutputColumns(q.SQL)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	declared := make(map[string]bool, len(q.Columns))
	for _, c := range q.Columns {
		if !isSimpleIdentifier(c.ColumnName) {
			report.Errors = append(report.Errors, fmt.Sprintf("column_name %q is not a simple identifier", c.ColumnName))
			continue
		}
		declared[strings.ToLower(c.ColumnName)] = true
	}

	sqlOutputs := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		if o.Name == "" {
			report.Warnings = append(report.Warnings, "a projected column has no name or alias and cannot be matched to metadata")
			continue
		}
		key := strings.ToLower(o.Name)
		sqlOutputs[key] = true
		if !declared[key] {
			report.Errors = append(report.Errors, fmt.Sprintf("SQL output column %q has no matching declared column", o.Name))
		}
	}

	for _, c := range q.Columns {
		key := strings.ToLower(c.ColumnName)
		if !sqlOutputs[key] {
			report.Errors = append(report.Errors, fmt.Sprintf("declared column %q does not appear in SQL output", c.ColumnName))
		}
	}

	return report, nil
}

// MustValidate is the raise-variant: it returns an error listing all
// blocking issues when the report is not OK.
func MustValidate(q *entity.QueryMetadata) error {
	report, err := Validate(q)
	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("metadata validation failed: %s", strings.Join(report.Errors, "; "))
	}
	return nil
}
