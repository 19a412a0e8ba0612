package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"moviesapi/internal/service"
)

type MockMovieService struct {
	mock.Mock
}

var _ service.MovieService = (*MockMovieService)(nil)

func (m *MockMovieService) List(ctx context.Context, params map[string]string) (service.Result, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(service.Result), args.Error(1)
}

func (m *MockMovieService) Get(ctx context.Context, id string) (service.Result, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result), args.Error(1)
}

func (m *MockMovieService) Search(ctx context.Context, term string, params map[string]string) (service.Result, error) {
	args := m.Called(ctx, term, params)
	return args.Get(0).(service.Result), args.Error(1)
}

func (m *MockMovieService) ByGenre(ctx context.Context, genre string) (service.Result, error) {
	args := m.Called(ctx, genre)
	return args.Get(0).(service.Result), args.Error(1)
}

func (m *MockMovieService) Stats(ctx context.Context) (service.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.Result), args.Error(1)
}

func (m *MockMovieService) Create(ctx context.Context, body map[string]any) (service.Result, error) {
	args := m.Called(ctx, body)
	return args.Get(0).(service.Result), args.Error(1)
}

func (m *MockMovieService) Update(ctx context.Context, id string, body map[string]any) (service.Result, error) {
	args := m.Called(ctx, id, body)
	return args.Get(0).(service.Result), args.Error(1)
}

func (m *MockMovieService) Delete(ctx context.Context, id string) (service.Result, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result), args.Error(1)
}
