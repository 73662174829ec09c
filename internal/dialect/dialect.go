// Package dialect maps a warehouse driver/engine name to the canonical
// dialect name used by the SQL parser and the pagination rewriter.
package dialect

import (
	"sync"

	"github.com/kiosk404/echosql/pkg/logger"
)

type Dialect string

const (
	ClickHouse Dialect = "clickhouse"
	Postgres   Dialect = "postgres"
	MySQL      Dialect = "mysql"
	SQLite     Dialect = "sqlite"
	TSQL       Dialect = "tsql"
	Oracle     Dialect = "oracle"
	Trino      Dialect = "trino"
)

var driverToDialect = map[string]Dialect{
	"clickhouse": ClickHouse,
	"postgresql": Postgres,
	"postgres":   Postgres,
	"mysql":      MySQL,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
	"mssql":      TSQL,
	"sqlserver":  TSQL,
	"oracle":     Oracle,
	"trino":      Trino,
	"presto":     Trino,
}

// Detect maps driverOrEngine to a canonical Dialect. Unknown drivers fall
// back to defaultDialect with a logged warning.
func Detect(driverOrEngine string, defaultDialect Dialect) Dialect {
	if d, ok := driverToDialect[driverOrEngine]; ok {
		return d
	}
	logger.WarnX("dialect", "unknown driver %q, falling back to default dialect %s", driverOrEngine, defaultDialect)
	return defaultDialect
}

// Cache is a process-scoped cache of profile -> detected dialect, so
// repeated calls from the pagination rewriter and SQL validator don't
// re-run driver introspection per request.
type Cache struct {
	defaultDialect Dialect
	resolved       sync.Map // profile (string) -> Dialect
}

func NewCache(defaultDialect Dialect) *Cache {
	return &Cache{defaultDialect: defaultDialect}
}

// Get returns the cached dialect for profile, computing and caching it via
// detect on first access.
func (c *Cache) Get(profile string, detect func() string) Dialect {
	if v, ok := c.resolved.Load(profile); ok {
		return v.(Dialect)
	}
	d := Detect(detect(), c.defaultDialect)
	actual, _ := c.resolved.LoadOrStore(profile, d)
	return actual.(Dialect)
}

// Invalidate clears a cached dialect, used when a profile's driver config
// changes at runtime.
func (c *Cache) Invalidate(profile string) {
	c.resolved.Delete(profile)
}
