// Package memory is a process-local movie store for development runs and
// tests. Contents are lost on restart.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
	"moviesapi/internal/repository"
)

// MovieMemory is an in-memory implementation of repository.MovieRepository.
type MovieMemory struct {
	mu     sync.RWMutex
	movies map[string]model.Movie
	now    func() time.Time
}

// NewMovieMemory creates an empty store.
func NewMovieMemory() *MovieMemory {
	return &MovieMemory{movies: make(map[string]model.Movie), now: time.Now}
}

var _ repository.MovieRepository = (*MovieMemory)(nil)

func (r *MovieMemory) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matched := r.match(filter)
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b model.Movie) int {
		c := compare(a, b, sort.Field)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if sort.Desc {
			return -c
		}
		return c
	})

	if skip >= len(matched) {
		return []model.Movie{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MovieMemory) Count(ctx context.Context, filter query.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.match(filter))), nil
}

func (r *MovieMemory) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(m), nil
}

func (r *MovieMemory) Insert(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	stored := *clone(*m)
	stored.ID = bson.NewObjectID().Hex()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.movies[stored.ID]; exists {
		return nil, repository.ErrConstraintViolation
	}
	r.movies[stored.ID] = stored
	return clone(stored), nil
}

func (r *MovieMemory) UpdateByID(ctx context.Context, id string, patch model.MoviePatch) (*model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&m)
	m.UpdatedAt = r.now().UTC()
	stored := *clone(m)
	r.movies[id] = stored
	return clone(stored), nil
}

func (r *MovieMemory) DeleteByID(ctx context.Context, id string) (*model.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.movies, id)
	return clone(m), nil
}

func (r *MovieMemory) AggregateStatistics(ctx context.Context) (*model.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &model.Statistics{TotalMovies: int64(len(r.movies))}
	var (
		sum   float64
		rated int
	)
	for _, m := range r.movies {
		if m.Rating != nil {
			v := *m.Rating
			if rated == 0 || v > stats.HighestRating {
				stats.HighestRating = v
			}
			if rated == 0 || v < stats.LowestRating {
				stats.LowestRating = v
			}
			sum += v
			rated++
		}
		if m.ReleaseYear != nil {
			y := *m.ReleaseYear
			if stats.LatestYear == nil || y > *stats.LatestYear {
				stats.LatestYear = &y
			}
			if stats.OldestYear == nil || y < *stats.OldestYear {
				stats.OldestYear = &y
			}
		}
	}
	if rated > 0 {
		stats.AverageRating = sum / float64(rated)
	}
	return stats, nil
}

// Ping always succeeds.
func (r *MovieMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// match must be called with r.mu held.
func (r *MovieMemory) match(f query.Filter) []model.Movie {
	out := make([]model.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		if matches(m, f) {
			out = append(out, *clone(m))
		}
	}
	return out
}

func matches(m model.Movie, f query.Filter) bool {
	for _, c := range f.Conditions {
		switch c.Op {
		case query.OpContains:
			s, ok := text(m, c.Field)
			want, _ := c.Value.(string)
			if !ok || !strings.Contains(strings.ToLower(s), strings.ToLower(want)) {
				return false
			}
		case query.OpEquals:
			if !equals(m, c.Field, c.Value) {
				return false
			}
		case query.OpRange:
			v, ok := number(m, c.Field)
			rng, _ := c.Value.(query.Range)
			if !ok || (rng.Min != nil && v < *rng.Min) || (rng.Max != nil && v > *rng.Max) {
				return false
			}
		}
	}
	return true
}

func text(m model.Movie, f query.Field) (string, bool) {
	switch f {
	case query.FieldTitle:
		return m.Title, true
	case query.FieldDirector:
		if m.Director != nil {
			return *m.Director, true
		}
	case query.FieldGenre:
		if m.Genre != nil {
			return *m.Genre, true
		}
	}
	return "", false
}

func number(m model.Movie, f query.Field) (float64, bool) {
	switch f {
	case query.FieldRating:
		if m.Rating != nil {
			return *m.Rating, true
		}
	case query.FieldReleaseYear:
		if m.ReleaseYear != nil {
			return float64(*m.ReleaseYear), true
		}
	}
	return 0, false
}

func equals(m model.Movie, f query.Field, v any) bool {
	if s, ok := v.(string); ok {
		got, present := text(m, f)
		return present && got == s
	}
	got, present := number(m, f)
	if !present {
		return false
	}
	switch n := v.(type) {
	case int:
		return got == float64(n)
	case float64:
		return got == n
	}
	return false
}

// compare orders a before b on field. Records missing the field sort first,
// as they do in the document store.
func compare(a, b model.Movie, f query.Field) int {
	switch f {
	case query.FieldTitle, query.FieldDirector, query.FieldGenre:
		as, aok := text(a, f)
		bs, bok := text(b, f)
		if aok != bok {
			return boolCmp(aok, bok)
		}
		return strings.Compare(as, bs)
	case query.FieldRating, query.FieldReleaseYear:
		an, aok := number(a, f)
		bn, bok := number(b, f)
		if aok != bok {
			return boolCmp(aok, bok)
		}
		return cmp.Compare(an, bn)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// clone deep-copies the optional fields so callers never share pointers
// with stored records.
func clone(m model.Movie) *model.Movie {
	out := m
	out.Director = clonePtr(m.Director)
	out.ReleaseYear = clonePtr(m.ReleaseYear)
	out.Genre = clonePtr(m.Genre)
	out.Rating = clonePtr(m.Rating)
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
