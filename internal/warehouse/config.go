// Package warehouse owns profile-scoped connections to the SQL engines the
// core runs validation and introspection against, and the driver registry
// mapping a canonical dialect to the concrete driver that serves it.
package warehouse

import (
	"fmt"
	"os"

	"github.com/kiosk404/echosql/internal/dialect"
	"github.com/kiosk404/echosql/pkg/utils/json"
)

// ProfileConfig is one named warehouse connection profile. The shape
// mirrors the MCP server map: a name keys into a per-profile config, so a
// deployment can target several warehouses (prod/staging, or several
// engines) from one process.
type ProfileConfig struct {
	// Driver is the driver identifier passed to dialect.Detect (e.g.
	// "postgresql", "clickhouse", "mysql", "sqlite", "mssql", "oracle",
	// "trino").
	Driver string `json:"driver"`

	// DSN is the driver-specific connection string.
	DSN string `json:"dsn"`

	// PinnedTables are always included by relevant_tables regardless of
	// threshold (spec §4.2).
	PinnedTables []string `json:"pinned_tables,omitempty"`

	// SchemaDescriptorPath points at the profile's YAML schema descriptor.
	SchemaDescriptorPath string `json:"schema_descriptor_path,omitempty"`
}

// Config is the top-level warehouse configuration: a map of profile name
// to ProfileConfig, plus the default dialect used when a driver is
// unrecognized.
type Config struct {
	Profiles       map[string]*ProfileConfig `json:"profiles"`
	DefaultDialect string                    `json:"default_dialect,omitempty"`
}

func NewConfig() *Config {
	return &Config{Profiles: make(map[string]*ProfileConfig), DefaultDialect: string(dialect.Postgres)}
}

// LoadConfig loads warehouse configuration from a JSON file. A missing
// file yields an empty config, matching the MCP loader's contract.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to read warehouse config file %q: %w", path, err)
	}
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse warehouse config file %q: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*ProfileConfig)
	}
	if cfg.DefaultDialect == "" {
		cfg.DefaultDialect = string(dialect.Postgres)
	}
	return cfg, nil
}

// Validate checks the warehouse configuration for obvious errors.
func (c *Config) Validate() []error {
	var errs []error
	for name, p := range c.Profiles {
		if p.Driver == "" {
			errs = append(errs, fmt.Errorf("profiles.%s: driver is required", name))
		}
		if p.DSN == "" {
			errs = append(errs, fmt.Errorf("profiles.%s: dsn is required", name))
		}
	}
	return errs
}
