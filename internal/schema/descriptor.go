// Package schema introspects a warehouse profile's live catalog and joins
// it with the profile's hand-authored YAML descriptor to produce the
// compact, prompt-ready schema text served by full_schema/filtered_schema
// (spec §4.2).
package schema

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/kiosk404/echosql/internal/domain/entity"
)

// LoadDescriptor reads a per-profile YAML schema descriptor from path. A
// missing file yields an empty descriptor — a profile need not have one;
// the bundler falls back to live introspection alone.
func LoadDescriptor(path string) (*entity.SchemaDescriptor, error) {
	if path == "" {
		return &entity.SchemaDescriptor{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &entity.SchemaDescriptor{}, nil
		}
		return nil, fmt.Errorf("read schema descriptor %q: %w", path, err)
	}
	var d entity.SchemaDescriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse schema descriptor %q: %w", path, err)
	}
	return &d, nil
}

// tableDescriptor looks up fqn's descriptor, returning nil when the
// profile's YAML descriptor has nothing to say about it.
func tableDescriptor(d *entity.SchemaDescriptor, fqn string) *entity.TableDescriptor {
	if d == nil {
		return nil
	}
	for i := range d.Tables {
		if d.Tables[i].FQN == fqn {
			return &d.Tables[i]
		}
	}
	return nil
}

func columnDescription(td *entity.TableDescriptor, column string) string {
	if td == nil {
		return ""
	}
	for _, c := range td.Columns {
		if c.Name == column {
			return c.Description
		}
	}
	return ""
}
