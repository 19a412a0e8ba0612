// Package migration creates the PostgreSQL schema for the movie store.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_movies",
		SQL: `CREATE TABLE IF NOT EXISTS movies (
  id           CHAR(24)         PRIMARY KEY,
  title        VARCHAR(200)     NOT NULL CHECK (length(title) > 0),
  director     VARCHAR(100),
  release_year INTEGER          CHECK (release_year BETWEEN 1800 AND 2100),
  genre        VARCHAR(50),
  rating       DOUBLE PRECISION CHECK (rating BETWEEN 1 AND 10),
  created_at   TIMESTAMPTZ      NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_movies_title",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_movies_title ON movies (title);`,
	},
	{
		Name: "create_index_movies_director",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_movies_director ON movies (director);`,
	},
	{
		Name: "create_index_movies_genre",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_movies_genre ON movies (genre);`,
	},
	{
		Name: "create_index_movies_release_year",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_movies_release_year ON movies (release_year DESC);`,
	},
	{
		Name: "create_index_movies_rating",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_movies_rating ON movies (rating DESC);`,
	},
	{
		Name: "create_index_movies_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_movies_created_at ON movies (created_at DESC);`,
	},
}

// EnsureMigrated creates the movies table and its indexes unless the table
// already exists. Every step is idempotent.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("checking schema")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.movies') IS NOT NULL").Scan(&exists); err != nil {
		log.Error().Err(err).
			Str("event", "db_migration_failed").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("step applied")
	}

	log.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema ready")
	return nil
}
