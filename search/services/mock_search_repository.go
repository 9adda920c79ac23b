package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/search/models"
	"github.com/qolzam/devflow/search/repository"
)

// MockSearchRepository is a mock implementation of SearchRepository for testing
type MockSearchRepository struct {
	mock.Mock
}

var _ repository.SearchRepository = (*MockSearchRepository)(nil)

func (m *MockSearchRepository) Search(ctx context.Context, kind, query string, limit int) ([]models.Result, error) {
	args := m.Called(ctx, kind, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Result), args.Error(1)
}
