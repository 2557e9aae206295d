package repository

import (
	"context"
	"io"

	"indicators/internal/domain/entity"
	"indicators/internal/domain/query"
)

// DatasetRepository is the record store of one kind.
type DatasetRepository interface {
	Kind() string

	// Columns lists the record's column names in output order.
	Columns() []string

	// List applies the date range, the kind's supported filters, the sort and
	// the page, in that order. Unsupported filters are ignored.
	List(ctx context.Context, q query.ListQuery) ([]entity.Record, error)

	// Create validates and stores a single record given as column values.
	Create(ctx context.Context, fields map[string]any) (entity.Record, error)

	// Import inserts every acceptable CSV row in one transaction and reports how many were stored.
	Import(ctx context.Context, r io.Reader) (int, error)
}

// DatasetRegistry resolves a kind to its repository.
type DatasetRegistry interface {
	Lookup(kind string) (DatasetRepository, bool)
	Kinds() []string
}
