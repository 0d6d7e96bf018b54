// Package store provides the persistence port for the catalog and its two
// adapters: a tabular CSV file and a PostgreSQL table.
package store

import (
	"context"

	"github.com/dkarpov/bookstore/internal/catalog"
)

// CatalogPort is the boundary abstraction for durable storage of the
// catalog. Save overwrites the backing store in full; there is no
// incremental append.
type CatalogPort interface {
	// Load reads every book record in stored order. A missing backing
	// store is an error, not an empty catalog.
	Load(ctx context.Context) ([]catalog.BookRecord, error)

	// Save replaces the backing store with the given records.
	Save(ctx context.Context, records []catalog.BookRecord) error
}
