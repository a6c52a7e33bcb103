// Package cache implements the time-to-live layer over the namespaced
// key-value store. Entries live under a cache-specific sub-namespace so
// they can be swept independently of preferences and the offline queue.
//
// Expiry is lazy: a read of a stale entry deletes it and reports a miss.
// The check uses wall-clock time; an entry can outlive its TTL if the
// device clock is set backward, which is an accepted limitation.
package cache

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/storage"
)

// Prefix is the sub-namespace cache entries live under, inside the
// application namespace.
const Prefix = "cache_"

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 30 * time.Minute

// entry is the persisted wrapper around a cached value. Timestamp and
// TTL are in milliseconds, matching the format the original client wrote.
type entry struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`
	TTL       int64           `json:"ttl"`
}

// expired reports whether the entry is past its lifetime at now.
// An entry is live iff now - created <= ttl.
func (e entry) expired(now time.Time) bool {
	return now.UnixMilli()-e.Timestamp > e.TTL
}

// Cache is the TTL layer. It is not safe for concurrent use beyond what
// the underlying store provides; the client runtime is cooperative.
type Cache struct {
	kv  *storage.Store
	log *zap.Logger
	now func() time.Time
}

// New creates a Cache over kv. A nil logger is replaced with a no-op
// logger.
func New(kv *storage.Store, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{kv: kv, log: log, now: time.Now}
}

// Set stores value under key with the given TTL. A non-positive ttl
// selects DefaultTTL. Reports whether the entry was persisted.
func (c *Cache) Set(key string, value any, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache set: marshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return c.kv.Set(Prefix+key, entry{
		Value:     raw,
		Timestamp: c.now().UnixMilli(),
		TTL:       ttl.Milliseconds(),
	})
}

// Get reads the cached value under key into out. A hit populates out and
// returns true. Absent, expired, and malformed entries are misses;
// expired and malformed entries are deleted on the way out. Expiry is
// never surfaced as an error.
func (c *Cache) Get(key string, out any) bool {
	var e entry
	if !c.kv.Get(Prefix+key, &e) {
		return false
	}
	if e.Value == nil {
		// Not a cache entry shape; drop it rather than guessing.
		c.kv.Remove(Prefix + key)
		return false
	}
	if e.expired(c.now()) {
		c.kv.Remove(Prefix + key)
		return false
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		c.log.Warn("cache get: unmarshal failed", zap.String("key", key), zap.Error(err))
		c.kv.Remove(Prefix + key)
		return false
	}
	return true
}

// Remove deletes the cached entry under key.
func (c *Cache) Remove(key string) bool {
	return c.kv.Remove(Prefix + key)
}

// RemoveMatching deletes every cached entry whose key starts with
// keyPrefix and returns the number removed. Used to invalidate a family
// of range-keyed entries after a write.
func (c *Cache) RemoveMatching(keyPrefix string) int {
	removed := 0
	for _, key := range c.kv.Keys(Prefix + keyPrefix) {
		if c.kv.Remove(key) {
			removed++
		}
	}
	return removed
}

// ClearExpired scans the cache sub-namespace, deletes every expired or
// unreadable entry, and returns the number removed. This is the only
// whole-namespace scan in the layer; run it opportunistically (app
// foregrounding), not per read.
func (c *Cache) ClearExpired() int {
	now := c.now()
	cleared := 0
	for _, key := range c.kv.Keys(Prefix) {
		var e entry
		if !c.kv.Get(key, &e) || e.Value == nil || e.expired(now) {
			if c.kv.Remove(key) {
				cleared++
			}
		}
	}
	if cleared > 0 {
		c.log.Info("cleared expired cache entries", zap.Int("count", cleared))
	}
	return cleared
}
