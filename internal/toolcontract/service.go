package toolcontract

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/internal/schema"
	"github.com/kiosk404/echosql/internal/vectorindex"
	"github.com/kiosk404/echosql/internal/warehouse"
)

const (
	defaultTopKExamples   = 5
	defaultTopKTables     = 8
	defaultTableThreshold = 0.75
)

// dialectInstructions are static, dialect-specific reminders folded into
// every prompt bundle's Instructions field — the SQL idioms the repair
// loop would otherwise only learn about after a failed explain_analyze
// round trip (e.g. "ClickHouse has no LAG/LEAD window function").
var dialectInstructions = map[string]string{
	"clickhouse": "Use groupArray/arrayJoin instead of LAG/LEAD; prefer argMax/argMin over correlated subqueries.",
	"postgres":   "Window functions and CTEs are fully supported; prefer them over correlated subqueries.",
	"mysql":      "Window functions require MySQL 8+; avoid FULL OUTER JOIN, it is unsupported.",
	"sqlite":     "No RIGHT/FULL OUTER JOIN; window functions require SQLite 3.25+.",
	"trino":      "Identifiers are case-sensitive when quoted; prefer approx_distinct for large cardinality counts.",
}

// Service is the concrete implementation of Provider, backing the
// agentic flow's tool calls with this core's own schema/warehouse/
// vector-index packages.
type Service struct {
	cfg       *warehouse.Config
	pool      *warehouse.Pool
	bundler   *schema.Bundler
	index     *vectorindex.Index
	validator *warehouse.Validator
	queries   repo.QueryRepo
}

func NewService(cfg *warehouse.Config, pool *warehouse.Pool, bundler *schema.Bundler, index *vectorindex.Index, validator *warehouse.Validator, queries repo.QueryRepo) *Service {
	return &Service{cfg: cfg, pool: pool, bundler: bundler, index: index, validator: validator, queries: queries}
}

var _ Provider = (*Service)(nil)

func (s *Service) DescribeProvider(ctx context.Context, _, _ string) ([]Profile, error) {
	profiles := make([]Profile, 0, len(s.cfg.Profiles))
	for name := range s.cfg.Profiles {
		_, d, err := s.pool.Get(ctx, name)
		profiles = append(profiles, Profile{Name: name, Dialect: string(d), Reachable: err == nil})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, nil
}

func (s *Service) GetPromptBundle(ctx context.Context, profile, userRequest string, topK int) (*PromptBundle, error) {
	topKTables, topKExamples := defaultTopKTables, defaultTopKExamples
	if topK > 0 {
		topKTables, topKExamples = topK, topK
	}

	tables, err := s.index.RelevantTables(ctx, userRequest, profile, topKTables, defaultTableThreshold)
	if err != nil {
		return nil, fmt.Errorf("relevant tables: %w", err)
	}
	selected := make([]string, len(tables))
	for i, t := range tables {
		selected[i] = t.FQN
	}

	examples, err := s.index.RelevantExamples(ctx, userRequest, profile, topKExamples)
	if err != nil {
		return nil, fmt.Errorf("relevant examples: %w", err)
	}

	schemaBlock, err := s.bundler.FilteredSchema(ctx, profile, selected, true)
	if err != nil {
		return nil, fmt.Errorf("filtered schema: %w", err)
	}

	_, d, err := s.pool.Get(ctx, profile)
	if err != nil && d == "" {
		return nil, fmt.Errorf("resolve dialect for profile %q: %w", profile, err)
	}

	return &PromptBundle{
		SchemaBlock:    schemaBlock,
		Examples:       renderExamples(examples),
		Instructions:   dialectInstructions[string(d)],
		SelectedTables: selected,
	}, nil
}

func (s *Service) ExplainAnalyze(ctx context.Context, sql, profile string) (*ExplainResult, error) {
	result, err := s.validator.Explain(ctx, profile, sql)
	if err != nil {
		return nil, err
	}
	out := &ExplainResult{Valid: result.Error == nil, Plan: result.Plan}
	if result.Error != nil {
		out.Error = result.Error.Message
		out.RepairGuidance = result.Error.RepairGuidance
	}
	return out, nil
}

// LogSuccessfulQuery indexes the validated query as a new few-shot
// example for future retrieval. previousError/previousSQL describe the
// repair-loop attempt this one corrected, if any, folded into the
// description so later retrieval surfaces the lesson along with the fix.
// The example is indexed under queryID's own profile, looked up from the
// persisted QueryMetadata rather than taken as a parameter — the tool
// interface contract (spec §6.2) does not pass a profile explicitly.
func (s *Service) LogSuccessfulQuery(ctx context.Context, queryID, sql, description, previousError, previousSQL string) error {
	q, err := s.queries.Get(ctx, queryID)
	if err != nil {
		return fmt.Errorf("look up query %q: %w", queryID, err)
	}

	if previousError != "" {
		description = fmt.Sprintf("%s (earlier attempt failed: %s)", description, previousError)
		if previousSQL != "" {
			description = fmt.Sprintf("%s; previous SQL: %s", description, previousSQL)
		}
	}

	ex := entity.QueryExample{
		ID:          uuid.New().String(),
		Profile:     q.Profile,
		Description: description,
		SQL:         sql,
	}
	return s.index.IndexExample(ctx, ex)
}

func renderExamples(examples []entity.QueryExample) string {
	if len(examples) == 0 {
		return "none"
	}
	var out string
	for _, ex := range examples {
		out += fmt.Sprintf("-- %s\n%s\n\n", ex.Description, ex.SQL)
	}
	return out
}
