package types

import "errors"

// HostStorage is the synchronous persistent key-value primitive the rest
// of the system is built on. It is the Go-native stand-in for the device
// storage API of the original client: flat string keys, opaque byte
// values, no structure beyond key uniqueness.
//
// Callers attach to a backend, operate on keys, and detach when done.
// Unlike the higher storage layers, HostStorage reports faults as errors;
// swallowing and logging them is the namespaced store's job.
type HostStorage interface {
	// Attach connects the storage to the backend described by config.
	// Creates the DataDir if it does not exist. Returns
	// ErrAlreadyAttached if called while already attached. Existing
	// data in the backend survives a reattach.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrStorageDetached.
	Detach() error

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key is absent.
	Get(key string) ([]byte, error)

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Keys returns every stored key with the given prefix, in
	// lexicographic order. An empty prefix returns all keys.
	Keys(prefix string) ([]string, error)

	// Clear deletes every stored key with the given prefix.
	Clear(prefix string) error

	// Usage reports bytes consumed by stored keys and values against
	// the configured quota.
	Usage() (StorageUsage, error)
}

// StorageUsage reports consumption of the storage quota.
type StorageUsage struct {
	UsedBytes  int64 `json:"used_bytes"`
	LimitBytes int64 `json:"limit_bytes"`
}

// HostStorage lifecycle errors.
var (
	ErrStorageDetached = errors.New("storage is detached")
	ErrAlreadyAttached = errors.New("storage is already attached")
	ErrKeyNotFound     = errors.New("key not found")
)
