package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/v2/bson"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
	"moviesapi/internal/repository"
)

const movieColumns = `id, title, director, release_year, genre, rating, created_at, updated_at`

// columns maps query fields onto table columns.
var columns = map[query.Field]string{
	query.FieldTitle:       "title",
	query.FieldDirector:    "director",
	query.FieldReleaseYear: "release_year",
	query.FieldGenre:       "genre",
	query.FieldRating:      "rating",
	query.FieldCreatedAt:   "created_at",
}

// MoviePostgres is a PostgreSQL implementation of repository.MovieRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type MoviePostgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewMoviePostgres creates a new MoviePostgres repository.
func NewMoviePostgres(db *sql.DB) *MoviePostgres {
	return &MoviePostgres{db: db, now: time.Now}
}

var _ repository.MovieRepository = (*MoviePostgres)(nil)

// Find returns movies matching filter using LIMIT/OFFSET pagination.
func (r *MoviePostgres) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]model.Movie, error) {
	where, args := buildWhere(filter)
	q := `SELECT ` + movieColumns + ` FROM movies` + where + buildOrderBy(sort)
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if skip > 0 {
		args = append(args, skip)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	items := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, translateError(err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// Count returns the number of rows matching filter.
func (r *MoviePostgres) Count(ctx context.Context, filter query.Filter) (int64, error) {
	where, args := buildWhere(filter)
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`+where, args...).Scan(&total); err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

// FindByID fetches a single movie by its ID.
func (r *MoviePostgres) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	const q = `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

// Insert stores a new row. Ids share the ObjectID shape used by the
// document store so identifiers are portable between backends.
func (r *MoviePostgres) Insert(ctx context.Context, m *model.Movie) (*model.Movie, error) {
	const q = `
		INSERT INTO movies (id, title, director, release_year, genre, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + movieColumns
	now := r.now().UTC().Truncate(time.Microsecond)
	row := r.db.QueryRowContext(ctx, q,
		bson.NewObjectID().Hex(),
		m.Title,
		m.Director,
		m.ReleaseYear,
		m.Genre,
		m.Rating,
		now,
	)
	out, err := scanMovie(row)
	if err != nil {
		return nil, translateError(err)
	}
	return out, nil
}

// UpdateByID sets only the fields present in patch.
func (r *MoviePostgres) UpdateByID(ctx context.Context, id string, patch model.MoviePatch) (*model.Movie, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Director != nil {
		add("director", *patch.Director)
	}
	if patch.ReleaseYear != nil {
		add("release_year", *patch.ReleaseYear)
	}
	if patch.Genre != nil {
		add("genre", *patch.Genre)
	}
	if patch.Rating != nil {
		add("rating", *patch.Rating)
	}
	add("updated_at", r.now().UTC().Truncate(time.Microsecond))
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE movies SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), movieColumns)
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

// DeleteByID removes a row and returns its prior state.
func (r *MoviePostgres) DeleteByID(ctx context.Context, id string) (*model.Movie, error) {
	const q = `DELETE FROM movies WHERE id = $1 RETURNING ` + movieColumns
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

// AggregateStatistics computes the summary in a single scan. The aggregate
// functions ignore NULLs, so partial records only count where present.
func (r *MoviePostgres) AggregateStatistics(ctx context.Context) (*model.Statistics, error) {
	const q = `
		SELECT COUNT(*), AVG(rating), MAX(rating), MIN(rating), MAX(release_year), MIN(release_year)
		FROM movies
	`
	var (
		stats          model.Statistics
		avg, hi, lo    sql.NullFloat64
		latest, oldest sql.NullInt64
	)
	if err := r.db.QueryRowContext(ctx, q).Scan(&stats.TotalMovies, &avg, &hi, &lo, &latest, &oldest); err != nil {
		return nil, translateError(err)
	}
	stats.AverageRating = avg.Float64
	stats.HighestRating = hi.Float64
	stats.LowestRating = lo.Float64
	stats.LatestYear = nullInt(latest)
	stats.OldestYear = nullInt(oldest)
	return &stats, nil
}

// Ping verifies the connection pool can reach the server.
func (r *MoviePostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (*model.Movie, error) {
	var (
		m               model.Movie
		director, genre sql.NullString
		year            sql.NullInt64
		rating          sql.NullFloat64
	)
	if err := s.Scan(&m.ID, &m.Title, &director, &year, &genre, &rating, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if director.Valid {
		m.Director = &director.String
	}
	if genre.Valid {
		m.Genre = &genre.String
	}
	if rating.Valid {
		m.Rating = &rating.Float64
	}
	m.ReleaseYear = nullInt(year)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// buildWhere renders filter as a WHERE clause with positional arguments.
func buildWhere(f query.Filter) (string, []any) {
	if f.IsEmpty() {
		return "", nil
	}
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	for _, c := range f.Conditions {
		col, ok := columns[c.Field]
		if !ok {
			continue
		}
		switch c.Op {
		case query.OpContains:
			s, _ := c.Value.(string)
			clauses = append(clauses, fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, next("%"+escapeLike(s)+"%")))
		case query.OpEquals:
			clauses = append(clauses, fmt.Sprintf("%s = %s", col, next(c.Value)))
		case query.OpRange:
			rng, _ := c.Value.(query.Range)
			if rng.Min != nil {
				clauses = append(clauses, fmt.Sprintf("%s >= %s", col, next(*rng.Min)))
			}
			if rng.Max != nil {
				clauses = append(clauses, fmt.Sprintf("%s <= %s", col, next(*rng.Max)))
			}
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildOrderBy sorts by the requested column with id as tiebreaker. A NULL
// sorts as the smallest value, the way the document store orders a missing
// field.
func buildOrderBy(s query.Sort) string {
	col, ok := columns[s.Field]
	if !ok {
		col = columns[query.DefaultSort.Field]
	}
	dir, nulls := "ASC", "NULLS FIRST"
	if s.Desc {
		dir, nulls = "DESC", "NULLS LAST"
	}
	return fmt.Sprintf(" ORDER BY %s %s %s, id %s", col, dir, nulls, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// translateError maps driver errors onto the repository sentinels.
func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23514", "23502":
			return fmt.Errorf("%w: %s", repository.ErrConstraintViolation, pgErr.Message)
		}
	}
	return fmt.Errorf("postgres: %w", err)
}
