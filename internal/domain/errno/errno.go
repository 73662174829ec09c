// Package errno holds the sentinel errors shared across the core: cheap,
// identity-comparable conditions that callers branch on directly.
// Structured diagnostics that need a class and an optional cause live in
// sqlerror.go instead.
package errno

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrQueryNotFound   = errors.New("query not found")

	ErrInvalidTransition = errors.New("invalid request status transition")
	ErrRequestCancelled  = errors.New("request cancelled")

	ErrAttemptsExhausted = errors.New("repair loop exhausted retry attempts")

	ErrCyclicInclude      = errors.New("cyclic include in prompt pack")
	ErrAmbiguousCandidate = errors.New("ambiguous candidate fragment")
	ErrMissingVariable    = errors.New("required prompt variable missing")
	ErrFragmentNotFound   = errors.New("prompt fragment not found in any layer")

	ErrDriverUnavailable = errors.New("no warehouse driver available for dialect")
	ErrUnknownDialect    = errors.New("unknown warehouse dialect")

	ErrInvalidSortColumn = errors.New("sort_by is not a declared column")

	ErrLineageCycleDetected = errors.New("query lineage exceeds max depth or cycles")

	ErrLLMProviderUnavailable = errors.New("llm provider unavailable")
	ErrLLMSchemaViolation     = errors.New("llm output does not conform to the requested structured schema")
	ErrLLMTimeout             = errors.New("llm call timed out")
)
