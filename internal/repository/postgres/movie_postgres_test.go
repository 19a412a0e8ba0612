package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
	"moviesapi/internal/repository"
)

var cols = []string{"id", "title", "director", "release_year", "genre", "rating", "created_at", "updated_at"}

const testID = "507f1f77bcf86cd799439011"

func ptr[T any](v T) *T { return &v }

func newRepo(t *testing.T) (*MoviePostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewMoviePostgres(db)
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestMoviePostgres_Find(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now().UTC()

	filter := query.NewFilterBuilder().Contains(query.FieldGenre, "Sci_Fi").Equals(query.FieldReleaseYear, 1999).Build()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, title, director, release_year, genre, rating, created_at, updated_at FROM movies ` +
			`WHERE genre ILIKE $1 ESCAPE '\' AND release_year = $2 ORDER BY rating ASC NULLS FIRST, id ASC LIMIT $3 OFFSET $4`)).
		WithArgs(`%Sci\_Fi%`, 1999, 10, 20).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(testID, "The Matrix", "Wachowskis", int64(1999), "Sci_Fi", 8.7, now, now).
			AddRow("507f1f77bcf86cd799439012", "eXistenZ", nil, int64(1999), "Sci_Fi", nil, now, now))

	items, err := repo.Find(context.Background(), filter, query.NewSort("rating", "asc"), 20, 10)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "The Matrix", items[0].Title)
	assert.Equal(t, 1999, *items[0].ReleaseYear)
	assert.Equal(t, 8.7, *items[0].Rating)
	assert.Nil(t, items[1].Director)
	assert.Nil(t, items[1].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoviePostgres_FindUnbounded(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM movies ORDER BY created_at DESC NULLS LAST, id DESC`) + `$`).
		WillReturnRows(sqlmock.NewRows(cols))

	items, err := repo.Find(context.Background(), query.Filter{}, query.DefaultSort, 0, 0)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoviePostgres_Count(t *testing.T) {
	repo, mock := newRepo(t)

	filter := query.NewFilterBuilder().Between(query.FieldRating, ptr(8.0), ptr(9.0)).Build()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM movies WHERE rating >= $1 AND rating <= $2`)).
		WithArgs(8.0, 9.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.Count(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoviePostgres_FindByID(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM movies WHERE id = ?").
			WithArgs(testID).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(testID, "Heat", "Michael Mann", int64(1995), "Crime", 8.3, now, now))

		m, err := repo.FindByID(ctx, testID)

		require.NoError(t, err)
		assert.Equal(t, testID, m.ID)
		assert.Equal(t, "Michael Mann", *m.Director)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM movies WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		m, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, m)
	})

	t.Run("connection failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		mock.ExpectQuery("SELECT (.+) FROM movies WHERE id = ?").
			WithArgs(testID).
			WillReturnError(boom)

		_, err := repo.FindByID(ctx, testID)

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestMoviePostgres_Insert(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()
	created := repo.now()

	t.Run("success", func(t *testing.T) {
		in := &model.Movie{Title: "Heat", ReleaseYear: ptr(1995)}
		mock.ExpectQuery("INSERT INTO movies").
			WithArgs(sqlmock.AnyArg(), "Heat", nil, 1995, nil, nil, created).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(testID, "Heat", nil, int64(1995), nil, nil, created, created))

		out, err := repo.Insert(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, testID, out.ID)
		assert.Equal(t, created, out.CreatedAt)
		assert.Equal(t, out.CreatedAt, out.UpdatedAt)
	})

	t.Run("check constraint", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO movies").
			WillReturnError(&pgconn.PgError{Code: "23514", Message: "movies_rating_check"})

		_, err := repo.Insert(ctx, &model.Movie{Title: "X", Rating: ptr(15.0)})

		assert.ErrorIs(t, err, repository.ErrConstraintViolation)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoviePostgres_UpdateByID(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()
	now := repo.now()

	t.Run("sets only present fields", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE movies SET rating = $1, updated_at = $2 WHERE id = $3 RETURNING`)).
			WithArgs(9.5, now, testID).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(testID, "Heat", "Michael Mann", int64(1995), "Crime", 9.5, now, now))

		m, err := repo.UpdateByID(ctx, testID, model.MoviePatch{Rating: ptr(9.5)})

		require.NoError(t, err)
		assert.Equal(t, 9.5, *m.Rating)
		assert.Equal(t, "Michael Mann", *m.Director)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE movies SET").
			WillReturnRows(sqlmock.NewRows(cols))

		m, err := repo.UpdateByID(ctx, testID, model.MoviePatch{Title: ptr("New")})

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, m)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoviePostgres_DeleteByID(t *testing.T) {
	repo, mock := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM movies WHERE id = $1 RETURNING`)).
		WithArgs(testID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(testID, "Heat", nil, nil, nil, nil, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM movies WHERE id = $1 RETURNING`)).
		WithArgs(testID).
		WillReturnRows(sqlmock.NewRows(cols))

	m, err := repo.DeleteByID(ctx, testID)
	require.NoError(t, err)
	assert.Equal(t, "Heat", m.Title)

	_, err = repo.DeleteByID(ctx, testID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoviePostgres_AggregateStatistics(t *testing.T) {
	statCols := []string{"count", "avg", "max", "min", "max", "min"}

	t.Run("populated", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("SELECT COUNT\\(\\*\\), AVG\\(rating\\)").
			WillReturnRows(sqlmock.NewRows(statCols).AddRow(int64(4), 8.25, 9.3, 7.0, int64(2010), int64(1972)))

		s, err := repo.AggregateStatistics(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(4), s.TotalMovies)
		assert.Equal(t, 8.25, s.AverageRating)
		assert.Equal(t, 9.3, s.HighestRating)
		assert.Equal(t, 7.0, s.LowestRating)
		assert.Equal(t, 2010, *s.LatestYear)
		assert.Equal(t, 1972, *s.OldestYear)
	})

	t.Run("empty table", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("SELECT COUNT\\(\\*\\), AVG\\(rating\\)").
			WillReturnRows(sqlmock.NewRows(statCols).AddRow(int64(0), nil, nil, nil, nil, nil))

		s, err := repo.AggregateStatistics(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &model.Statistics{}, s)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestBuildOrderBy(t *testing.T) {
	tests := []struct {
		sort query.Sort
		want string
	}{
		{query.NewSort("rating", "desc"), " ORDER BY rating DESC NULLS LAST, id DESC"},
		{query.NewSort("rating", "asc"), " ORDER BY rating ASC NULLS FIRST, id ASC"},
		{query.NewSort("releaseYear", "desc"), " ORDER BY release_year DESC NULLS LAST, id DESC"},
		{query.Sort{Field: "budget"}, " ORDER BY created_at ASC NULLS FIRST, id ASC"},
		{query.DefaultSort, " ORDER BY created_at DESC NULLS LAST, id DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildOrderBy(tt.sort), "%+v", tt.sort)
	}
}
