package entity

import "time"

// CacheEntry is one blob cached by (logical prefix, stable argument tuple).
type CacheEntry struct {
	Prefix    string        `json:"prefix"`
	Key       string        `json:"key"` // opaque digest of the argument tuple
	Value     []byte        `json:"value"`
	TTL       time.Duration `json:"ttl"`
	StoredAt  time.Time     `json:"stored_at"`
}

// ExpiresAt returns when this entry should be considered stale.
func (c *CacheEntry) ExpiresAt() time.Time {
	return c.StoredAt.Add(c.TTL)
}

// Expired reports whether this entry is stale as of now.
func (c *CacheEntry) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt())
}
