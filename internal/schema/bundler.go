package schema

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kiosk404/echosql/internal/cache"
	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/warehouse"
	"github.com/kiosk404/echosql/pkg/utils/json"
)

const (
	fullSchemaTTL     = time.Hour
	cachePrefixSchema = "schema:full"
)

// Bundler implements full_schema/filtered_schema (spec §4.2): live
// introspection joined with a profile's YAML descriptor, rendered as a
// compact textual block grouped by schema then table, column-by-column.
type Bundler struct {
	pool        *warehouse.Pool
	cfg         *warehouse.Config
	cache       *cache.Cache
	descriptors map[string]*entity.SchemaDescriptor // profile -> loaded descriptor
}

func NewBundler(pool *warehouse.Pool, cfg *warehouse.Config, c *cache.Cache) *Bundler {
	return &Bundler{pool: pool, cfg: cfg, cache: c, descriptors: make(map[string]*entity.SchemaDescriptor)}
}

func (b *Bundler) descriptorFor(profile string) (*entity.SchemaDescriptor, error) {
	if d, ok := b.descriptors[profile]; ok {
		return d, nil
	}
	pc, ok := b.cfg.Profiles[profile]
	if !ok {
		return &entity.SchemaDescriptor{}, nil
	}
	d, err := LoadDescriptor(pc.SchemaDescriptorPath)
	if err != nil {
		return nil, err
	}
	b.descriptors[profile] = d
	return d, nil
}

// FullSchema enumerates every table visible in profile, cached by
// (profile, client, env, with_examples) for about an hour.
func (b *Bundler) FullSchema(ctx context.Context, profile, client, env string, withExamples bool) (string, error) {
	key := cacheKey(profile, client, env, withExamples)
	if cached, ok := b.cache.Get(ctx, cachePrefixSchema, key); ok {
		return string(cached), nil
	}

	text, err := b.render(ctx, profile, nil, withExamples)
	if err != nil {
		return "", err
	}
	b.cache.Set(ctx, cachePrefixSchema, key, []byte(text), fullSchemaTTL)
	return text, nil
}

// FilteredSchema restricts the projection to tables, never cached since
// the key space (arbitrary table subsets) is unbounded.
func (b *Bundler) FilteredSchema(ctx context.Context, profile string, tables []string, withExamples bool) (string, error) {
	filter := make(map[string]bool, len(tables))
	for _, t := range tables {
		filter[t] = true
	}
	return b.render(ctx, profile, filter, withExamples)
}

func (b *Bundler) render(ctx context.Context, profile string, tableFilter map[string]bool, withExamples bool) (string, error) {
	db, d, err := b.pool.Get(ctx, profile)
	if err != nil {
		return "", fmt.Errorf("open profile %q: %w", profile, err)
	}

	tables, err := Introspect(ctx, db, d, tableFilter)
	if err != nil {
		return "", fmt.Errorf("introspect profile %q: %w", profile, err)
	}

	descriptor, err := b.descriptorFor(profile)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	currentSchema := ""
	for _, t := range tables {
		schemaName, tableName := splitFQN(t.FQN)
		if schemaName != currentSchema {
			fmt.Fprintf(&sb, "# schema %s\n", schemaName)
			currentSchema = schemaName
		}

		td := tableDescriptor(descriptor, t.FQN)
		fmt.Fprintf(&sb, "## table %s\n", tableName)
		if td != nil && td.Description != "" {
			fmt.Fprintf(&sb, "%s\n", td.Description)
		}
		if withExamples && td != nil && len(td.UseCases) > 0 {
			fmt.Fprintf(&sb, "use cases: %s\n", strings.Join(td.UseCases, "; "))
		}
		if td != nil && len(td.KeyConcepts) > 0 {
			fmt.Fprintf(&sb, "key concepts: %s\n", strings.Join(td.KeyConcepts, ", "))
		}
		for _, c := range t.Columns {
			desc := columnDescription(td, c.Name)
			if desc != "" {
				fmt.Fprintf(&sb, "- %s (%s): %s\n", c.Name, c.DataType, desc)
			} else {
				fmt.Fprintf(&sb, "- %s (%s)\n", c.Name, c.DataType)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func splitFQN(fqn string) (schemaName, tableName string) {
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		return fqn[:idx], fqn[idx+1:]
	}
	return "default", fqn
}

func cacheKey(profile, client, env string, withExamples bool) string {
	parts := []string{profile, client, env, fmt.Sprintf("%t", withExamples)}
	b, _ := json.Marshal(parts)
	return string(b)
}
