// Package sqlite exposes the SQLite composition catalog while keeping the
// implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/weave/internal/sqlite"
	"github.com/mesh-intelligence/weave/pkg/types"
)

// NewCatalog creates a new SQLite catalog.
// The catalog is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	catalog := sqlite.NewCatalog()
//	err := catalog.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".weave-catalog",
//	})
//	defer catalog.Detach()
func NewCatalog() types.Catalog {
	return sqlite.NewBackend()
}
