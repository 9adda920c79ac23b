package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/answers/models"
	"github.com/qolzam/devflow/answers/repository"
)

// MockAnswerRepository is a mock implementation of AnswerRepository for testing
type MockAnswerRepository struct {
	mock.Mock
}

var _ repository.AnswerRepository = (*MockAnswerRepository)(nil)

func (m *MockAnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) FindByID(ctx context.Context, answerID uuid.UUID) (*models.Answer, error) {
	args := m.Called(ctx, answerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) Delete(ctx context.Context, answerID uuid.UUID) error {
	args := m.Called(ctx, answerID)
	return args.Error(0)
}

func (m *MockAnswerRepository) DeleteByQuestion(ctx context.Context, questionID uuid.UUID) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockAnswerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID, sort string, limit, offset int) ([]models.Answer, int64, error) {
	args := m.Called(ctx, questionID, sort, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Answer), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnswerRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Answer, int64, error) {
	args := m.Called(ctx, authorID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Answer), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnswerRepository) IDsByQuestion(ctx context.Context, questionID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockAnswerRepository) KeysByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.AnswerKey, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnswerKey), args.Error(1)
}

func (m *MockAnswerRepository) LockVoteTarget(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAnswerRepository) ApplyVoteDelta(ctx context.Context, id uuid.UUID, upDelta, downDelta int) (int, int, error) {
	args := m.Called(ctx, id, upDelta, downDelta)
	return args.Int(0), args.Int(1), args.Error(2)
}

// WithTransaction runs fn directly; the mock has no transaction to open.
func (m *MockAnswerRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
