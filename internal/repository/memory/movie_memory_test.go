package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
	"moviesapi/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T) *MovieMemory {
	t.Helper()
	r := NewMovieMemory()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	for _, m := range []model.Movie{
		{Title: "The Shawshank Redemption", Director: ptr("Frank Darabont"), ReleaseYear: ptr(1994), Genre: ptr("Drama"), Rating: ptr(9.3)},
		{Title: "The Godfather", Director: ptr("Francis Ford Coppola"), ReleaseYear: ptr(1972), Genre: ptr("Crime, Drama"), Rating: ptr(9.2)},
		{Title: "Inception", Director: ptr("Christopher Nolan"), ReleaseYear: ptr(2010), Genre: ptr("Sci-Fi"), Rating: ptr(8.8)},
		{Title: "Untitled Project"},
	} {
		_, err := r.Insert(context.Background(), &m)
		require.NoError(t, err)
	}
	return r
}

func titles(ms []model.Movie) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Title
	}
	return out
}

func TestMovieMemory_Find(t *testing.T) {
	r := seed(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		filter      query.Filter
		sort        query.Sort
		skip, limit int
		want        []string
	}{
		{
			name:  "default sort is newest first",
			sort:  query.DefaultSort,
			limit: 2,
			want:  []string{"Untitled Project", "Inception"},
		},
		{
			name:  "second page",
			sort:  query.DefaultSort,
			skip:  2,
			limit: 2,
			want:  []string{"The Godfather", "The Shawshank Redemption"},
		},
		{
			name:  "page past the end",
			sort:  query.DefaultSort,
			skip:  10,
			limit: 2,
			want:  []string{},
		},
		{
			name:   "genre contains ignores case",
			filter: query.NewFilterBuilder().Contains(query.FieldGenre, "drama").Build(),
			sort:   query.NewSort("releaseYear", "asc"),
			want:   []string{"The Godfather", "The Shawshank Redemption"},
		},
		{
			name:   "rating range and year",
			filter: query.NewFilterBuilder().Between(query.FieldRating, ptr(9.0), nil).Equals(query.FieldReleaseYear, 1994).Build(),
			sort:   query.DefaultSort,
			want:   []string{"The Shawshank Redemption"},
		},
		{
			name: "missing rating sorts first ascending",
			sort: query.NewSort("rating", "asc"),
			want: []string{"Untitled Project", "Inception", "The Godfather", "The Shawshank Redemption"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Find(ctx, tt.filter, tt.sort, tt.skip, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestMovieMemory_Count(t *testing.T) {
	r := seed(t)

	n, err := r.Count(context.Background(), query.NewFilterBuilder().Contains(query.FieldTitle, "the").Build())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMovieMemory_CRUD(t *testing.T) {
	r := NewMovieMemory()
	ctx := context.Background()

	created, err := r.Insert(ctx, &model.Movie{Title: "Heat", Director: ptr("Michael Mann"), Rating: ptr(8.3)})
	require.NoError(t, err)
	assert.Len(t, created.ID, 24)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	*created.Director = "mutated by caller"
	got, err := r.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Michael Mann", *got.Director)

	updated, err := r.UpdateByID(ctx, created.ID, model.MoviePatch{Rating: ptr(9.0)})
	require.NoError(t, err)
	assert.Equal(t, 9.0, *updated.Rating)
	assert.Equal(t, "Heat", updated.Title)
	assert.Equal(t, "Michael Mann", *updated.Director)

	deleted, err := r.DeleteByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, *deleted.Rating)

	_, err = r.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.DeleteByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.UpdateByID(ctx, created.ID, model.MoviePatch{Title: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMovieMemory_AggregateStatistics(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s, err := NewMovieMemory().AggregateStatistics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &model.Statistics{}, s)
	})

	t.Run("ignores absent attributes", func(t *testing.T) {
		s, err := seed(t).AggregateStatistics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(4), s.TotalMovies)
		assert.InDelta(t, (9.3+9.2+8.8)/3, s.AverageRating, 1e-9)
		assert.Equal(t, 9.3, s.HighestRating)
		assert.Equal(t, 8.8, s.LowestRating)
		assert.Equal(t, 2010, *s.LatestYear)
		assert.Equal(t, 1972, *s.OldestYear)
	})
}

func TestMovieMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMovieMemory().Find(ctx, query.Filter{}, query.DefaultSort, 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
