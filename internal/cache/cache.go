// Package cache is the blob cache facade used by the schema introspector
// and SQL validator to absorb repeated lookups and repair-loop bursts. It
// never surfaces a cache failure as an error to the caller: a missing or
// failing cache degrades to recomputation and a logged warning, per
// contract.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kiosk404/echosql/pkg/logger"
)

// Store is the minimal external key-value contract the process cache can
// be backed by: atomic set/get/del plus pattern-match delete-by-prefix.
// The in-process default (Memory) implements this directly; a
// cross-process deployment would back it with Redis or similar without
// touching callers.
type Store interface {
	Get(ctx context.Context, prefix, key string) ([]byte, bool, error)
	Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, prefix, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Memory is an in-process Store, one RWMutex-guarded map keyed by "prefix\x00key" with
// TTL checked on read. It is mutated only inside the owning goroutine's
// event loop per the single-threaded-cooperative model; concurrent use
// from multiple goroutines is safe but not required.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && now.After(e.storedAt.Add(e.ttl))
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func compositeKey(prefix, key string) string {
	return prefix + "\x00" + key
}

func (m *Memory) Get(_ context.Context, prefix, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[compositeKey(prefix, key)]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, prefix, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[compositeKey(prefix, key)] = entry{value: value, storedAt: time.Now(), ttl: ttl}
	return nil
}

func (m *Memory) Delete(_ context.Context, prefix, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, compositeKey(prefix, key))
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := prefix + "\x00"
	for k := range m.entries {
		if len(k) >= len(want) && k[:len(want)] == want {
			delete(m.entries, k)
		}
	}
	return nil
}

// Cache wraps a Store with the degrade-on-failure contract: Get/Set
// failures are logged and treated as a miss/no-op rather than propagated.
type Cache struct {
	store  Store
	module string
}

func New(store Store) *Cache {
	return &Cache{store: store, module: "cache"}
}

// Get returns the cached value for (prefix, key). ok is false on a miss,
// expiry, or a backing-store error (logged, not returned).
func (c *Cache) Get(ctx context.Context, prefix, key string) (value []byte, ok bool) {
	v, found, err := c.store.Get(ctx, prefix, key)
	if err != nil {
		logger.WarnX(c.module, "get failed, degrading to recompute: prefix=%s err=%v", prefix, err)
		return nil, false
	}
	return v, found
}

// Set stores value under (prefix, key) with ttl. A failure is logged and
// swallowed: a cache write never fails the caller's request.
func (c *Cache) Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration) {
	if err := c.store.Set(ctx, prefix, key, value, ttl); err != nil {
		logger.WarnX(c.module, "set failed, continuing without cache: prefix=%s err=%v", prefix, err)
	}
}

// InvalidatePrefix sweeps every entry under prefix, used when a schema
// version changes underneath a cached full_schema/relevant_examples entry.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if err := c.store.DeletePrefix(ctx, prefix); err != nil {
		logger.WarnX(c.module, "prefix invalidation failed: prefix=%s err=%v", prefix, err)
	}
}
