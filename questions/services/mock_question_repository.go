package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/questions/models"
	"github.com/qolzam/devflow/questions/repository"
	"github.com/qolzam/devflow/shared/interfaces"
)

// MockQuestionRepository is a mock implementation of QuestionRepository for testing
type MockQuestionRepository struct {
	mock.Mock
}

var _ repository.QuestionRepository = (*MockQuestionRepository)(nil)

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) FindByID(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, questionID uuid.UUID, title, content string) error {
	args := m.Called(ctx, questionID, title, content)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, questionID uuid.UUID) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, params repository.ListParams) ([]models.Question, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) Hot(ctx context.Context, limit int) ([]models.Question, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) TagsFor(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]interfaces.TagRef, error) {
	args := m.Called(ctx, questionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]interfaces.TagRef), args.Error(1)
}

func (m *MockQuestionRepository) IDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockQuestionRepository) IncrementViews(ctx context.Context, questionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) LockVoteTarget(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockQuestionRepository) ApplyVoteDelta(ctx context.Context, id uuid.UUID, upDelta, downDelta int) (int, int, error) {
	args := m.Called(ctx, id, upDelta, downDelta)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockQuestionRepository) AdjustAnswerCount(ctx context.Context, questionID uuid.UUID, delta int) error {
	args := m.Called(ctx, questionID, delta)
	return args.Error(0)
}

// WithTransaction runs fn directly; the mock has no transaction to open.
func (m *MockQuestionRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
