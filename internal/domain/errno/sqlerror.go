package errno

import (
	"fmt"
	"strings"
)

// SQLErrorClass classifies a SQL validation failure so the repair loop and
// the HTTP layer can react without parsing message strings.
type SQLErrorClass string

const (
	ClassSyntax        SQLErrorClass = "syntax"
	ClassUnknownColumn  SQLErrorClass = "unknown_column"
	ClassTypeMismatch   SQLErrorClass = "type_mismatch"
	ClassTimeout        SQLErrorClass = "timeout"
	ClassPermission     SQLErrorClass = "permission"
	ClassOther          SQLErrorClass = "other"
)

// SQLValidationError is the structured diagnostic returned by the SQL
// validator and the metadata validator. Position is a best-effort
// character offset into the SQL string; -1 when the driver didn't report
// one.
type SQLValidationError struct {
	Class         SQLErrorClass
	Message       string
	Position      int
	RepairGuidance string
	Cause         error
}

func (e *SQLValidationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("[%s@%d] %s", e.Class, e.Position, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Class, e.Message)
}

func (e *SQLValidationError) Unwrap() error { return e.Cause }

// ClassifyDriverError maps a raw driver error into a SQLErrorClass using
// message pattern matching. Drivers differ in how precisely they report
// errors; this is deliberately conservative and falls back to ClassOther.
func ClassifyDriverError(err error) SQLErrorClass {
	if err == nil {
		return ClassOther
	}
	lower := strings.ToLower(err.Error())

	switch {
	case containsAny(lower, "syntax error", "parse error", "unexpected token"):
		return ClassSyntax
	case containsAny(lower, "unknown column", "no such column", "undefined column"),
		strings.Contains(lower, "column ") && strings.Contains(lower, "does not exist"):
		return ClassUnknownColumn
	case containsAny(lower, "type mismatch", "cannot cast", "invalid input syntax for type", "incompatible types"):
		return ClassTypeMismatch
	case containsAny(lower, "timeout", "deadline exceeded", "canceling statement due to"):
		return ClassTimeout
	case containsAny(lower, "permission denied", "access denied", "not authorized", "insufficient privilege"):
		return ClassPermission
	default:
		return ClassOther
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
