// Package sqlite provides the public API for the SQLite HostStorage
// backend, keeping implementation details internal.
package sqlite

import (
	"github.com/cairnapp/cairn/internal/sqlite"
	"github.com/cairnapp/cairn/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".cairn-db",
//	})
//	defer backend.Detach()
func NewBackend() types.HostStorage {
	return sqlite.NewBackend()
}
