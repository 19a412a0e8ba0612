// Package service implements the movie retrieval and mutation pipelines.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
	"moviesapi/internal/repository"
	"moviesapi/internal/validation"
)

var tracer = otel.Tracer("moviesapi/internal/service")

// MovieService defines the use cases exposed to the transport. Every method
// takes already-extracted request values. Domain failures come back as a
// failed Result; the error is reserved for ErrStoreUnavailable and ErrInternal.
type MovieService interface {
	// List returns one page of movies matching the recognized query keys.
	List(ctx context.Context, params map[string]string) (Result, error)

	// Get returns a single movie by its ID.
	Get(ctx context.Context, id string) (Result, error)

	// Search matches term against titles, paginated like List.
	Search(ctx context.Context, term string, params map[string]string) (Result, error)

	// ByGenre returns every movie whose genre contains genre. Unpaginated.
	ByGenre(ctx context.Context, genre string) (Result, error)

	// Stats summarises the whole collection.
	Stats(ctx context.Context) (Result, error)

	// Create validates body and stores a new movie.
	Create(ctx context.Context, body map[string]any) (Result, error)

	// Update applies a partial update. It never creates.
	Update(ctx context.Context, id string, body map[string]any) (Result, error)

	// Delete removes a movie and returns its prior state.
	Delete(ctx context.Context, id string) (Result, error)
}

// movieService is a concrete implementation of MovieService.
type movieService struct {
	repo      repository.MovieRepository
	validator *validation.Validator
}

// NewMovieService constructs a new MovieService.
func NewMovieService(repo repository.MovieRepository, v *validation.Validator) MovieService {
	return &movieService{repo: repo, validator: v}
}

func (s *movieService) List(ctx context.Context, params map[string]string) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.List")
	defer span.End()

	p, err := s.validator.QueryParams(params)
	if err != nil {
		return invalid(KindInvalidParameter, MsgInvalidParameters, err)
	}
	return s.page(ctx, span, p.Filter(), p.Sort(), p.Page)
}

func (s *movieService) Get(ctx context.Context, id string) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Get", trace.WithAttributes(attribute.String("movie.id", id)))
	defer span.End()

	id, valid := validation.Identifier(id)
	if !valid {
		return fail(KindInvalidIdentifier, MsgInvalidID), nil
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mutationError(span, "find movie", err)
	}
	return ok(m), nil
}

func (s *movieService) Search(ctx context.Context, term string, params map[string]string) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Search")
	defer span.End()

	term, present := validation.RequiredParam(term)
	if !present {
		return fail(KindMissingParameter, MsgSearchRequired), nil
	}
	p, err := s.validator.QueryParams(params)
	if err != nil {
		return invalid(KindInvalidParameter, MsgInvalidParameters, err)
	}
	filter := query.NewFilterBuilder().Contains(query.FieldTitle, term).Build()
	return s.page(ctx, span, filter, p.Sort(), p.Page)
}

func (s *movieService) ByGenre(ctx context.Context, genre string) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.ByGenre")
	defer span.End()

	genre, present := validation.RequiredParam(genre)
	if !present {
		return fail(KindMissingParameter, MsgGenreRequired), nil
	}
	filter := query.NewFilterBuilder().Contains(query.FieldGenre, genre).Build()
	items, err := s.repo.Find(ctx, filter, query.DefaultSort, 0, 0)
	if err != nil {
		return Result{}, s.traceError(span, storeError("find by genre", err))
	}
	span.SetAttributes(attribute.Int("movies.returned", len(items)))
	return ok(items), nil
}

func (s *movieService) Stats(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Stats")
	defer span.End()

	stats, err := s.repo.AggregateStatistics(ctx)
	if err != nil {
		return Result{}, s.traceError(span, storeError("aggregate statistics", err))
	}
	if stats == nil {
		stats = &model.Statistics{}
	}
	return ok(stats), nil
}

func (s *movieService) Create(ctx context.Context, body map[string]any) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Create")
	defer span.End()

	patch, err := s.validator.Movie(ctx, body, validation.ModeCreate)
	if err != nil {
		return invalid(KindValidationFailed, MsgValidationFailed, err)
	}
	created, err := s.repo.Insert(ctx, model.NewMovie(patch))
	if err != nil {
		return s.mutationError(span, "insert movie", err)
	}
	span.SetAttributes(attribute.String("movie.id", created.ID))
	return okMsg(StatusCreated, created, MsgCreated), nil
}

func (s *movieService) Update(ctx context.Context, id string, body map[string]any) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Update", trace.WithAttributes(attribute.String("movie.id", id)))
	defer span.End()

	id, valid := validation.Identifier(id)
	if !valid {
		return fail(KindInvalidIdentifier, MsgInvalidID), nil
	}
	if len(body) == 0 {
		return fail(KindEmptyPayload, MsgEmptyPayload), nil
	}
	patch, err := s.validator.Movie(ctx, body, validation.ModeUpdate)
	if err != nil {
		return invalid(KindValidationFailed, MsgValidationFailed, err)
	}
	// Only unknown keys were sent; after stripping there is nothing to write.
	if patch.IsEmpty() {
		return fail(KindEmptyPayload, MsgEmptyPayload), nil
	}
	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return s.mutationError(span, "update movie", err)
	}
	return okMsg(StatusOK, updated, MsgUpdated), nil
}

func (s *movieService) Delete(ctx context.Context, id string) (Result, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Delete", trace.WithAttributes(attribute.String("movie.id", id)))
	defer span.End()

	id, valid := validation.Identifier(id)
	if !valid {
		return fail(KindInvalidIdentifier, MsgInvalidID), nil
	}
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return s.mutationError(span, "delete movie", err)
	}
	return okMsg(StatusOK, deleted, MsgDeleted), nil
}

// page fetches one window and the total count concurrently. If either read
// fails the whole operation fails.
func (s *movieService) page(ctx context.Context, span trace.Span, filter query.Filter, sort query.Sort, pg query.Page) (Result, error) {
	var (
		items []model.Movie
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.Find(gctx, filter, sort, pg.Skip(), pg.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, s.traceError(span, storeError("list movies", err))
	}
	if items == nil {
		items = []model.Movie{}
	}

	span.SetAttributes(
		attribute.Int("page", pg.Page),
		attribute.Int("limit", pg.Limit),
		attribute.Int64("total", total),
	)
	return okPage(items, pg.Paginate(total)), nil
}

// mutationError classifies repository errors from single-record operations.
func (s *movieService) mutationError(span trace.Span, op string, err error) (Result, error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(KindNotFound, MsgNotFound), nil
	case errors.Is(err, repository.ErrConstraintViolation):
		return fail(KindConstraintViolation, MsgConstraint), nil
	}
	return Result{}, s.traceError(span, storeError(op, err))
}

func (s *movieService) traceError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// invalid turns a validation failure into a client-error Result. A non-list
// error means the validator itself broke.
func invalid(kind ErrorKind, msg string, err error) (Result, error) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return Result{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return fail(kind, msg, verrs.Messages()...), nil
}
