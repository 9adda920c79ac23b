package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/tags/models"
	"github.com/qolzam/devflow/tags/repository"
)

// MockTagRepository is a test double for the tag repository.
type MockTagRepository struct {
	mock.Mock
}

var _ repository.TagRepository = (*MockTagRepository)(nil)

func (m *MockTagRepository) Upsert(ctx context.Context, name string) (interfaces.TagRef, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(interfaces.TagRef), args.Error(1)
}

func (m *MockTagRepository) LinkQuestion(ctx context.Context, questionID, tagID uuid.UUID) error {
	args := m.Called(ctx, questionID, tagID)
	return args.Error(0)
}

func (m *MockTagRepository) UnlinkQuestion(ctx context.Context, questionID uuid.UUID) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockTagRepository) FindByID(ctx context.Context, tagID uuid.UUID) (*models.Tag, error) {
	args := m.Called(ctx, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context, search, filter string, limit, offset int) ([]models.Tag, int64, error) {
	args := m.Called(ctx, search, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Tag), args.Get(1).(int64), args.Error(2)
}

func (m *MockTagRepository) Popular(ctx context.Context, limit int) ([]models.Tag, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
