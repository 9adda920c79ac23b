package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/interactions/models"
	"github.com/qolzam/devflow/interactions/repository"
	"github.com/qolzam/devflow/shared/interfaces"
)

// MockInteractionRepository is a mock implementation of InteractionRepository for testing
type MockInteractionRepository struct {
	mock.Mock
}

var _ repository.InteractionRepository = (*MockInteractionRepository)(nil)

func (m *MockInteractionRepository) Insert(ctx context.Context, id uuid.UUID, event interfaces.InteractionEvent) error {
	args := m.Called(ctx, id, event)
	return args.Error(0)
}

func (m *MockInteractionRepository) DeleteForQuestion(ctx context.Context, questionID uuid.UUID) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockInteractionRepository) DeleteForAnswers(ctx context.Context, answerIDs []uuid.UUID) error {
	args := m.Called(ctx, answerIDs)
	return args.Error(0)
}

func (m *MockInteractionRepository) TopTags(ctx context.Context, userID uuid.UUID, limit int) ([]models.TopTag, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TopTag), args.Error(1)
}
