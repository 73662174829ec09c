// Package toolcontract declares the narrow interface the agentic flow
// depends on for everything outside its own process: profile discovery,
// retrieval-augmented prompt context, SQL validation, and the optional
// successful-query learning hook (spec §6.2). Mirrors mcp.Manager's
// shape — a small consumer-side interface, implemented by a concrete
// Service wired to this core's own schema/warehouse/vector-index
// packages — so the agentic flow and an out-of-process tool server could
// both sit behind the same contract without either depending on the
// other's internals.
package toolcontract

import "context"

// Profile describes one configured warehouse connection as seen by
// describe_provider.
type Profile struct {
	Name      string `json:"name"`
	Dialect   string `json:"dialect"`
	Reachable bool   `json:"reachable"`
}

// PromptBundle is get_prompt_bundle's response shape (spec §6.2).
type PromptBundle struct {
	SchemaBlock    string   `json:"schema_block"`
	Examples       string   `json:"examples"`
	Instructions   string   `json:"instructions"`
	SelectedTables []string `json:"selected_tables,omitempty"`
}

// ExplainResult is explain_analyze's response shape (spec §6.2, §4.3).
type ExplainResult struct {
	Valid          bool   `json:"valid"`
	Plan           string `json:"plan,omitempty"`
	Error          string `json:"error,omitempty"`
	RepairGuidance string `json:"repair_guidance,omitempty"`
}

// Provider is the tool interface consumed by the agentic query flow.
type Provider interface {
	// DescribeProvider enumerates configured profiles and, per profile,
	// its resolved dialect and whether its warehouse driver is reachable.
	// client/env are accepted for parity with the prompt assembler's
	// client/env overlay routing; profile visibility itself is not
	// currently client/env-scoped.
	DescribeProvider(ctx context.Context, client, env string) ([]Profile, error)

	// GetPromptBundle returns the retrieval-augmented context a caller
	// would otherwise have to assemble by hand: filtered schema, few-shot
	// examples, and static dialect instructions. userRequest may be empty;
	// it is embedded and ranked like any other request (an empty request
	// is not treated specially), and the profile's pinned tables are
	// always included. topK <= 0 uses the provider's own default.
	GetPromptBundle(ctx context.Context, profile, userRequest string, topK int) (*PromptBundle, error)

	// ExplainAnalyze submits sql for plan generation against profile
	// without materializing results.
	ExplainAnalyze(ctx context.Context, sql, profile string) (*ExplainResult, error)

	// LogSuccessfulQuery is the learning hook: a validated query, its
	// description, and (when this attempt followed a repair) the prior
	// failing SQL and its diagnostic. Implementations may use this to
	// grow the few-shot example index; a no-op implementation is valid.
	LogSuccessfulQuery(ctx context.Context, queryID, sql, description, previousError, previousSQL string) error
}
