package queryflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kiosk404/echosql/internal/dialect"
	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/internal/promptpack"
	"github.com/kiosk404/echosql/internal/schema"
	"github.com/kiosk404/echosql/internal/vectorindex"
	"github.com/kiosk404/echosql/internal/warehouse"
)

// ContextBuildConfig bounds how much retrieval context.go pulls in per
// request (step 1 of the repair loop, §4.6).
type ContextBuildConfig struct {
	TopKExamples   int
	TopKTables     int
	TableThreshold float64
}

func DefaultContextBuildConfig() ContextBuildConfig {
	return ContextBuildConfig{TopKExamples: 5, TopKTables: 8, TableThreshold: 0.75}
}

// ContextBuilder assembles the rendered prompt and supporting metadata for
// one attempt of the repair loop: prior turns, dialect, relevant tables and
// examples, and a filtered schema bundle, rendered through the
// interactive_query prompt slot.
type ContextBuilder struct {
	requests  repo.RequestRepo
	pool      *warehouse.Pool
	index     *vectorindex.Index
	bundler   *schema.Bundler
	assembler *promptpack.Assembler
	cfg       ContextBuildConfig
}

func NewContextBuilder(requests repo.RequestRepo, pool *warehouse.Pool, index *vectorindex.Index, bundler *schema.Bundler, assembler *promptpack.Assembler, cfg ContextBuildConfig) *ContextBuilder {
	return &ContextBuilder{requests: requests, pool: pool, index: index, bundler: bundler, assembler: assembler, cfg: cfg}
}

// BuildResult is everything CALLING_LLM needs out of ASSEMBLING.
type BuildResult struct {
	Prompt  string
	Dialect dialect.Dialect
	Lineage []entity.LineageEntry
}

// Build runs step 1 (context) and step 2 (prompt) of the repair loop for
// one attempt. feedback, when non-empty, is appended to history as the
// most recent system turn — the diagnostic from a prior failed attempt.
func (cb *ContextBuilder) Build(ctx context.Context, sessionID, profile, userRequest, client, env string, feedback []string) (*BuildResult, error) {
	turns, err := cb.requests.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}

	_, d, err := cb.pool.Get(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("detect dialect: %w", err)
	}

	tables, err := cb.index.RelevantTables(ctx, userRequest, profile, cb.cfg.TopKTables, cb.cfg.TableThreshold)
	if err != nil {
		return nil, fmt.Errorf("relevant tables: %w", err)
	}
	tableNames := make([]string, len(tables))
	for i, t := range tables {
		tableNames[i] = t.FQN
	}

	examples, err := cb.index.RelevantExamples(ctx, userRequest, profile, cb.cfg.TopKExamples)
	if err != nil {
		return nil, fmt.Errorf("relevant examples: %w", err)
	}

	schemaBlock, err := cb.bundler.FilteredSchema(ctx, profile, tableNames, true)
	if err != nil {
		return nil, fmt.Errorf("filtered schema: %w", err)
	}

	vars := map[string]interface{}{
		"user_request": userRequest,
		"schema_block": schemaBlock,
		"examples":     renderExamples(examples),
		"history":      renderHistory(turns, feedback),
		"dialect":      string(d),
		"now":          time.Now().UTC().Format(time.RFC3339),
	}

	prompt, lineage, err := cb.assembler.Assemble("interactive_query", vars, client, env)
	if err != nil {
		return nil, fmt.Errorf("assemble prompt: %w", err)
	}

	return &BuildResult{Prompt: prompt, Dialect: d, Lineage: lineage}, nil
}

func renderExamples(examples []entity.QueryExample) string {
	if len(examples) == 0 {
		return "none"
	}
	var sb strings.Builder
	for _, ex := range examples {
		fmt.Fprintf(&sb, "-- %s (tables: %s)\n%s\n\n", ex.Description, strings.Join(ex.Tables, ", "), ex.SQL)
	}
	return sb.String()
}

func renderHistory(turns []*entity.Turn, feedback []string) string {
	var sb strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Content)
	}
	for _, f := range feedback {
		fmt.Fprintf(&sb, "%s: %s\n", entity.RoleSystem, f)
	}
	if sb.Len() == 0 {
		return "none"
	}
	return sb.String()
}
