package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/votes/models"
	"github.com/qolzam/devflow/votes/repository"
)

// MockVoteRepository is a mock implementation of VoteRepository
type MockVoteRepository struct {
	mock.Mock
}

var _ repository.VoteRepository = (*MockVoteRepository)(nil)

func (m *MockVoteRepository) Find(ctx context.Context, targetType string, targetID, userID uuid.UUID) (*models.Vote, error) {
	args := m.Called(ctx, targetType, targetID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *MockVoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) Delete(ctx context.Context, targetType string, targetID, userID uuid.UUID) (bool, int, error) {
	args := m.Called(ctx, targetType, targetID, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockVoteRepository) StatesFor(ctx context.Context, targetType string, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, targetType, targetIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

func (m *MockVoteRepository) DeleteForTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) error {
	args := m.Called(ctx, targetType, targetIDs)
	return args.Error(0)
}

func (m *MockVoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Vote, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vote), args.Error(1)
}

func (m *MockVoteRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// WithTransaction runs fn directly; the mock has no transaction to open.
func (m *MockVoteRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
