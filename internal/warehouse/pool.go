package warehouse

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kiosk404/echosql/internal/dialect"
	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/pkg/logger"
)

// driverName maps a canonical Dialect to the database/sql driver name
// registered by that driver's blank import above.
var driverName = map[dialect.Dialect]string{
	dialect.Postgres:   "pgx",
	dialect.ClickHouse:  "clickhouse",
	dialect.MySQL:       "mysql",
	dialect.SQLite:      "sqlite3",
}

// Pool holds one lazily-opened *sql.DB per profile, shared per-process;
// the engine itself bounds concurrent queries and back-pressure shows up
// as queueing inside the driver, per the concurrency model.
type Pool struct {
	cfg      *Config
	dialects *dialect.Cache

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func NewPool(cfg *Config) *Pool {
	return &Pool{
		cfg:      cfg,
		dialects: dialect.NewCache(dialect.Dialect(cfg.DefaultDialect)),
		dbs:      make(map[string]*sql.DB),
	}
}

// Get returns the shared *sql.DB for profile, opening it on first access.
// tsql/oracle/trino profiles have no driver anywhere in this deployment's
// dependency set and return errno.ErrDriverUnavailable — detection and SQL
// rewriting for those dialects still work; only the live warehouse call
// path is unavailable.
func (p *Pool) Get(ctx context.Context, profile string) (*sql.DB, dialect.Dialect, error) {
	pc, ok := p.cfg.Profiles[profile]
	if !ok {
		return nil, "", errno.ErrQueryNotFound
	}
	d := p.dialects.Get(profile, func() string { return pc.Driver })

	p.mu.Lock()
	defer p.mu.Unlock()
	if db, ok := p.dbs[profile]; ok {
		return db, d, nil
	}

	drv, ok := driverName[d]
	if !ok {
		logger.WarnX("warehouse", "no driver registered for dialect %s (profile=%s)", d, profile)
		return nil, d, errno.ErrDriverUnavailable
	}

	db, err := sql.Open(drv, pc.DSN)
	if err != nil {
		return nil, d, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, d, err
	}
	p.dbs[profile] = db
	return db, d, nil
}

// Close closes every opened connection pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for name, db := range p.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.dbs, name)
	}
	return firstErr
}
