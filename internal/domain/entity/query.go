package entity

import "time"

// Column describes one projected output column of a QueryMetadata's SQL.
type Column struct {
	ID string `json:"id,omitempty"`

	// ColumnName must equal the SQL output column's alias (if AS is used)
	// or bare identifier; never an expression, never table-prefixed.
	ColumnName string `json:"column_name"`

	// DisplayAlias is a short (<=~15 char) human label for UI headers.
	DisplayAlias string `json:"display_alias,omitempty"`

	Type        string `json:"type,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
}

// QueryMetadata is the LLM's structured output for one successfully
// validated query attempt.
type QueryMetadata struct {
	ID string `json:"id"`

	SessionID string `json:"session_id"`
	RequestID string `json:"request_id"`

	// ParentID links to the prior QueryMetadata this one refines, forming
	// an in-session DAG.
	ParentID string `json:"parent_id,omitempty"`

	// Summary is a short (<=~4 word) label.
	Summary string `json:"summary"`

	// Description is a one-paragraph natural-language description.
	Description string `json:"description"`

	SQL string `json:"sql"`

	// ResultNarrative is an optional human-readable summary of what the
	// query's results mean, populated after execution.
	ResultNarrative string `json:"result_narrative,omitempty"`

	Columns []Column `json:"columns"`

	Dialect string `json:"dialect,omitempty"`
	Profile string `json:"profile,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ColumnNames returns the declared column names in order.
func (q *QueryMetadata) ColumnNames() []string {
	names := make([]string, len(q.Columns))
	for i, c := range q.Columns {
		names[i] = c.ColumnName
	}
	return names
}
