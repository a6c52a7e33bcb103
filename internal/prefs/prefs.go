// Package prefs implements the typed preference store: a fixed set of
// recognized settings persisted as one JSON object, always read back
// merged over hard-coded defaults.
package prefs

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/cairnapp/cairn/internal/storage"
	"github.com/cairnapp/cairn/pkg/types"
)

// prefsKey is the storage key of the persisted preference blob.
const prefsKey = "preferences"

// Store reads and writes user preferences through the namespaced
// key-value store.
type Store struct {
	kv  *storage.Store
	log *zap.Logger
}

// New creates a preference store. A nil logger is replaced with a no-op
// logger.
func New(kv *storage.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log}
}

// Get returns the full preference set: persisted values win per key,
// defaults fill everything else. It never returns a partial object, even
// when storage is empty or holds a blob written by an older build with
// fewer keys.
func (s *Store) Get() types.Preferences {
	p := types.DefaultPreferences()
	// Unmarshalling over the defaults leaves absent fields at their
	// default value, which is exactly the merge the contract asks for.
	s.kv.Get(prefsKey, &p)
	return p
}

// Set updates a single preference by key and persists the full merged
// object. Unknown keys and type-mismatched values are rejected. Reports
// whether the preference was persisted.
func (s *Store) Set(key string, value any) bool {
	if !types.KnownPrefKeys[key] {
		s.log.Warn("ignoring unknown preference key", zap.String("key", key))
		return false
	}

	merged, err := applyKey(s.Get(), key, value)
	if err != nil {
		s.log.Warn("preference value rejected",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return s.kv.Set(prefsKey, merged)
}

// Value returns a single preference by key. Unknown keys report ok=false.
func (s *Store) Value(key string) (any, bool) {
	if !types.KnownPrefKeys[key] {
		return nil, false
	}
	fields, err := toMap(s.Get())
	if err != nil {
		return nil, false
	}
	v, ok := fields[key]
	return v, ok
}

// Reset overwrites storage with exactly the default preference set.
func (s *Store) Reset() bool {
	return s.kv.Set(prefsKey, types.DefaultPreferences())
}

// applyKey sets one field of p by its JSON key, going through a map so
// the typed struct validates the value on the way back.
func applyKey(p types.Preferences, key string, value any) (types.Preferences, error) {
	fields, err := toMap(p)
	if err != nil {
		return p, err
	}
	fields[key] = value

	raw, err := json.Marshal(fields)
	if err != nil {
		return p, err
	}
	var merged types.Preferences
	if err := json.Unmarshal(raw, &merged); err != nil {
		return p, err
	}
	return merged, nil
}

func toMap(p types.Preferences) (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
