// Package repository contains the data access contract for movies.
// Implementations live in subpackages (mongo, postgres, memory) inside this directory.
package repository

import (
	"context"
	"errors"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
)

var (
	// ErrNotFound is returned when no record exists at the given id.
	ErrNotFound = errors.New("record not found")
	// ErrConstraintViolation is returned when the store rejects a write,
	// e.g. a uniqueness or check constraint.
	ErrConstraintViolation = errors.New("constraint violation")
)

// MovieRepository defines data access for movies.
// No business logic here: ids are assumed to be well-formed and patches validated.
type MovieRepository interface {
	// Find returns the records matching filter in sort order. A limit of 0
	// means no upper bound.
	Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]model.Movie, error)

	// Count returns the number of records matching filter.
	Count(ctx context.Context, filter query.Filter) (int64, error)

	// FindByID returns ErrNotFound when the id does not resolve.
	FindByID(ctx context.Context, id string) (*model.Movie, error)

	// Insert stores m and returns it with id and timestamps set by the store.
	Insert(ctx context.Context, m *model.Movie) (*model.Movie, error)

	// UpdateByID sets only the fields present in patch and returns the
	// updated record, or ErrNotFound. It never inserts.
	UpdateByID(ctx context.Context, id string, patch model.MoviePatch) (*model.Movie, error)

	// DeleteByID removes the record and returns its prior state, or ErrNotFound.
	DeleteByID(ctx context.Context, id string) (*model.Movie, error)

	// AggregateStatistics summarises the whole collection in one pass.
	AggregateStatistics(ctx context.Context) (*model.Statistics, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
