// Package storage implements the namespaced key-value store that the
// cache, preference, and queue layers are built on. Every key is
// transparently prefixed with the application namespace so the store can
// be cleared independently of anything else the host keeps.
//
// The store never panics and never returns errors: any underlying fault
// is logged and degraded to a boolean or default-value result, so callers
// observe a no-op rather than a failure they cannot handle.
package storage

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cairnapp/cairn/pkg/types"
)

// Namespace is the fixed prefix applied to every key. It is part of the
// persisted format and must not change without a migration.
const Namespace = "habit_tracker_"

// Store is a namespaced, fault-swallowing view over a HostStorage.
// Values cross the boundary as JSON; malformed persisted data fails the
// single unmarshal step and reads as absent.
type Store struct {
	host types.HostStorage
	log  *zap.Logger
}

// New creates a Store over host. A nil logger is replaced with a no-op
// logger.
func New(host types.HostStorage, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{host: host, log: log}
}

// Set marshals value as JSON and stores it under the namespaced key.
// Reports whether the write succeeded.
func (s *Store) Set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("storage set: marshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.host.Set(Namespace+key, raw); err != nil {
		s.log.Warn("storage set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Get reads the namespaced key and unmarshals it into out. Reports
// whether out was populated; on a miss or fault, out keeps whatever
// default the caller seeded it with.
func (s *Store) Get(key string, out any) bool {
	raw, err := s.host.Get(Namespace + key)
	if err != nil {
		if err != types.ErrKeyNotFound {
			s.log.Warn("storage get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn("storage get: unmarshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Remove deletes the namespaced key. Reports whether the delete
// succeeded; deleting an absent key succeeds.
func (s *Store) Remove(key string) bool {
	if err := s.host.Remove(Namespace + key); err != nil {
		s.log.Warn("storage remove failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Keys returns the un-namespaced keys currently stored under the given
// sub-prefix. A fault reads as an empty listing.
func (s *Store) Keys(prefix string) []string {
	full, err := s.host.Keys(Namespace + prefix)
	if err != nil {
		s.log.Warn("storage keys failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, k[len(Namespace):])
	}
	return keys
}

// Clear removes every key under the application namespace, leaving data
// owned by other tenants of the host storage untouched. Callers that
// need to preserve specific keys (the current session, typically) must
// re-write them after the clear.
func (s *Store) Clear() bool {
	if err := s.host.Clear(Namespace); err != nil {
		s.log.Warn("storage clear failed", zap.Error(err))
		return false
	}
	return true
}

// Usage reports storage consumption. Reports ok=false on fault.
func (s *Store) Usage() (types.StorageUsage, bool) {
	u, err := s.host.Usage()
	if err != nil {
		s.log.Warn("storage usage failed", zap.Error(err))
		return types.StorageUsage{}, false
	}
	return u, true
}
