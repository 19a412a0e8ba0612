package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"moviesapi/internal/model"
	"moviesapi/internal/query"
	"moviesapi/internal/repository"
)

type MockMovieRepository struct {
	mock.Mock
}

var _ repository.MovieRepository = (*MockMovieRepository)(nil)

func (m *MockMovieRepository) Find(ctx context.Context, filter query.Filter, sort query.Sort, skip, limit int) ([]model.Movie, error) {
	args := m.Called(ctx, filter, sort, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Movie), args.Error(1)
}

func (m *MockMovieRepository) Count(ctx context.Context, filter query.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMovieRepository) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieRepository) Insert(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	args := m.Called(ctx, movie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieRepository) UpdateByID(ctx context.Context, id string, patch model.MoviePatch) (*model.Movie, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieRepository) DeleteByID(ctx context.Context, id string) (*model.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Movie), args.Error(1)
}

func (m *MockMovieRepository) AggregateStatistics(ctx context.Context) (*model.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Statistics), args.Error(1)
}

func (m *MockMovieRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
